package main

import (
	"context"
	"flag"
	"log"

	firebase "firebase.google.com/go"
	"github.com/oweek/raceday-backend/internal/constants"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var dryRun = flag.Bool("dry-run", true, "only list orphaned auth accounts, do not delete them")

// Lists Firebase Auth accounts that have no user document left, which happens
// when a CreateUser rollback fails halfway. With -dry-run=false they are
// deleted.
func main() {
	flag.Parse()

	ctx := context.Background()

	conf := &firebase.Config{
		ProjectID: constants.ProjectID,
	}

	app, err := firebase.NewApp(ctx, conf)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("error getting Firestore client: %v\n", err)
	}

	// Note, behind the scenes, the Users() iterator will retrieve 1000 Users at a time through the API
	iter := authClient.Users(ctx, "")
	for {
		user, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Fatalf("error listing users: %s\n", err)
		}

		_, err = firestoreClient.Collection(constants.CollectionUsers).Doc(user.UID).Get(ctx)
		if err == nil {
			continue
		}
		if status.Code(err) != codes.NotFound {
			log.Fatalf("error reading user doc %s: %s\n", user.UID, err)
		}

		if *dryRun {
			log.Printf("orphaned auth account: %s (%s)\n", user.UID, user.Email)
			continue
		}

		if err := authClient.DeleteUser(ctx, user.UID); err != nil {
			log.Printf("could not delete %s: %s\n", user.UID, err)
			continue
		}
		log.Printf("deleted orphaned auth account: %s (%s)\n", user.UID, user.Email)
	}
}
