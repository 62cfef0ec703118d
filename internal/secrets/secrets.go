package secrets

import (
	"context"
	"fmt"
	"log"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/oweek/raceday-backend/internal/constants"
	"github.com/oweek/raceday-backend/internal/logging"
	secretmanagerpb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
)

//SecretsManagerClient -_-
var SecretsManagerClient *secretmanager.Client
var projectID string

func init() {
	ctx := context.Background()

	projectID = constants.ProjectID
	id, exists := os.LookupEnv("PROJECT_ID")
	if exists {
		projectID = id
	}

	if projectID == "NOOP" {
		log.Printf("Mocking Secrets Manager")
		return
	}

	var err error
	SecretsManagerClient, err = secretmanager.NewClient(ctx)
	if err != nil {
		log.Fatalf("secretmanager.NewClient: %v", err)
	}
}

//Manager is an abstraction over Secret Manager
type Manager interface {
	Get(name string) ([]byte, error)
}

//Client Real Secrets Manager client.
type Client struct{}

//Get Gets value of specified secret.
func (c Client) Get(name string) ([]byte, error) {
	ctx := context.Background()
	var logger = logging.FromContext(ctx)

	logger.Debugf("Accessing secret '%v'", name)

	var req = secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%v/secrets/%v/versions/latest", projectID, name),
	}

	secret, err := SecretsManagerClient.AccessSecretVersion(ctx, &req)
	if err != nil {
		return nil, err
	}

	return secret.GetPayload().GetData(), nil
}

//MockClient NOOP Secrets Manager client.
type MockClient struct{}

//Get Gets value of specified secret.
func (c MockClient) Get(name string) ([]byte, error) {
	return []byte("mock42"), nil
}
