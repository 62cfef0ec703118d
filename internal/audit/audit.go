package audit

import (
	"context"
	"net"
	"sync"

	"github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/proxy"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/secrets"
)

//ScoreRecord Row of the append-only score audit table. Mirrors the Firestore
//scoreLog entry after commit so the trail survives a store reset.
type ScoreRecord struct {
	tableName struct{} `pg:"score_audit"` //nolint:unused

	ID        int    `pg:"id,pk"`
	EntryID   string `pg:"entry_id,notnull"`
	GroupID   string `pg:"group_id,notnull"`
	Points    int    `pg:"points,use_zero"`
	Type      string `pg:"type,notnull"`
	SourceID  string `pg:"source_id"`
	Note      string `pg:"note"`
	AwardedBy string `pg:"awarded_by"`
	CreatedAt int64  `pg:"created_at,use_zero"`
}

//Recorder Interface for the score audit mirror.
type Recorder interface {
	PersistScoreRecord(record *ScoreRecord) error
	GetScoreRecords(groupID string) ([]*ScoreRecord, error)
}

//Connection Contains database connection pool.
type Connection struct {
	inner *pg.DB
}

var database *Connection
var connectOnce sync.Once

func connection() *Connection {
	connectOnce.Do(func() {
		ctx := context.Background()
		logger := logging.FromContext(ctx).Named("audit.database.connect")
		secretsClient := secrets.Client{}

		databaseName, err := secretsClient.Get("audit-database-name")
		if err != nil {
			logger.Fatalf("Connection to secret manager failed: %s", err)
			return
		}
		databasePassword, err := secretsClient.Get("audit-database-password")
		if err != nil {
			logger.Fatalf("Connection to secret manager failed: %s", err)
			return
		}
		databaseUser, err := secretsClient.Get("audit-database-login")
		if err != nil {
			logger.Fatalf("Connection to secret manager failed: %s", err)
			return
		}
		databaseConnectionName, err := secretsClient.Get("audit-database-connection-name")
		if err != nil {
			logger.Fatalf("Connection to secret manager failed: %s", err)
			return
		}

		database = &Connection{inner: pg.Connect(&pg.Options{
			Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return proxy.Dial(string(databaseConnectionName))
			},
			User:     string(databaseUser),
			Password: string(databasePassword),
			Database: string(databaseName),
		})}

		if err := database.createSchema(); err != nil {
			logger.Fatalf("Error while creating DB schema: %s", err)
			return
		}
	})

	return database
}

//Client Real audit recorder backed by Cloud SQL.
type Client struct{}

//PersistScoreRecord Save one score record to the audit table.
func (c Client) PersistScoreRecord(record *ScoreRecord) error {
	db := connection()
	conn := db.inner.Conn()
	defer conn.Close()

	_, err := conn.Model(record).Insert()
	return err
}

//GetScoreRecords Get all audit records of one group, oldest first.
func (c Client) GetScoreRecords(groupID string) ([]*ScoreRecord, error) {
	db := connection()
	conn := db.inner.Conn()
	defer conn.Close()

	var records []*ScoreRecord
	if err := conn.Model(&records).Where("group_id = ?", groupID).Order("created_at ASC").Select(); err != nil {
		return nil, err
	}
	return records, nil
}

func (db Connection) createSchema() error {
	conn := db.inner.Conn()
	defer conn.Close()

	models := []interface{}{
		(*ScoreRecord)(nil),
	}

	for _, model := range models {
		err := conn.Model(model).CreateTable(&orm.CreateTableOptions{
			IfNotExists: true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

//MockClient NOOP audit recorder. Records rows in memory for assertions.
type MockClient struct {
	Records []*ScoreRecord
}

//PersistScoreRecord Save one score record (it's a mock!).
func (c *MockClient) PersistScoreRecord(record *ScoreRecord) error {
	c.Records = append(c.Records, record)
	return nil
}

//GetScoreRecords Get all audit records of one group (it's a mock!).
func (c *MockClient) GetScoreRecords(groupID string) ([]*ScoreRecord, error) {
	var out []*ScoreRecord
	for _, r := range c.Records {
		if r.GroupID == groupID {
			out = append(out, r)
		}
	}
	return out, nil
}
