package commands

import (
	"context"
	"fmt"
	"os"

	"toodone/pkg/store"
	"toodone/pkg/todoist"
)

// HandleSyncCommand processes the --sync command. Pull runs before push so
// remote changes land locally first.
func HandleSyncCommand(st *store.Store, token string) {
	if token == "" {
		fmt.Println("No Todoist token configured. Set todoist_token in the config file or TODOIST_API_TOKEN.")
		os.Exit(1)
	}

	ctx := context.Background()
	client := todoist.NewClient(ctx, token)
	syncer := todoist.NewSyncer(client, st)

	pulled, err := syncer.Pull(ctx)
	if err != nil {
		fmt.Printf("Error pulling from Todoist: %v\n", err)
		os.Exit(1)
	}

	pushed, err := syncer.Push(ctx)
	if err != nil {
		fmt.Printf("Error pushing to Todoist: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sync done: %d pulled, %d updated, %d pushed, %d closed\n",
		pulled.Pulled, pulled.Updated, pushed.Pushed, pushed.Closed)
}
