package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/oweek/raceday-backend/internal/audit"
)

var groupID = flag.String("group", "", "group document ID")

// Prints the Cloud SQL audit trail of one group, oldest first. The audit
// table survives a game reset, so this is where to look when a score in
// Firestore is disputed.
func main() {
	flag.Parse()

	if *groupID == "" {
		flag.PrintDefaults()
		return
	}

	auditClient := audit.Client{}

	records, err := auditClient.GetScoreRecords(*groupID)
	if err != nil {
		log.Fatalf("error reading audit records: %v", err)
	}

	for _, record := range records {
		fmt.Printf("%v\t%v\t%v\t%+d\t%v\t%v\t%v\n",
			record.CreatedAt, record.EntryID, record.Type, record.Points,
			record.SourceID, record.AwardedBy, record.Note)
	}
}
