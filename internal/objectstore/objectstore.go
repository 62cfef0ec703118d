package objectstore

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"cloud.google.com/go/compute/metadata"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	credentialspb "google.golang.org/genproto/googleapis/iam/credentials/v1"
)

//StorageClient -_-
var StorageClient *storage.Client
var iamClient *credentials.IamCredentialsClient
var bucketName string
var signerID string

func init() {
	ctx := context.Background()

	bucketName = "raceday-submissions"
	name, exists := os.LookupEnv("SUBMISSIONS_BUCKET")
	if exists {
		bucketName = name
	}

	if bucketName == "NOOP" {
		log.Printf("Mocking Cloud Storage")
		return
	}

	var err error
	StorageClient, err = storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("storage.NewClient: %v", err)
	}

	// The package-level URL signer needs an explicit identity, nothing is
	// auto-detected. Locally set SIGNER_SERVICE_ACCOUNT, on GCP the runtime
	// service account is taken from the metadata server.
	signerID, exists = os.LookupEnv("SIGNER_SERVICE_ACCOUNT")
	if !exists {
		signerID, err = metadata.Email("default")
		if err != nil {
			log.Fatalf("metadata.Email: %v", err)
		}
	}

	iamClient, err = credentials.NewIamCredentialsClient(ctx)
	if err != nil {
		log.Fatalf("credentials.NewIamCredentialsClient: %v", err)
	}
}

//Object Metadata of one stored object.
type Object struct {
	Name string
	Size int64
}

//Storer is an object storage abstraction layer interface
type Storer interface {
	List(ctx context.Context, prefix string) ([]Object, error)
	NewReader(ctx context.Context, name string) (io.ReadCloser, error)
	NewWriter(ctx context.Context, name string) io.WriteCloser
	SignedURL(name string, method string, expires time.Time) (string, error)
}

//Client Real Cloud Storage client.
type Client struct{}

//List Lists objects under the given prefix.
func (c Client) List(ctx context.Context, prefix string) ([]Object, error) {
	bucket := StorageClient.Bucket(bucketName)

	var objects []Object
	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		objects = append(objects, Object{Name: attrs.Name, Size: attrs.Size})
	}

	return objects, nil
}

//NewReader Opens the named object for reading.
func (c Client) NewReader(ctx context.Context, name string) (io.ReadCloser, error) {
	return StorageClient.Bucket(bucketName).Object(name).NewReader(ctx)
}

//NewWriter Opens the named object for writing. Close commits the object.
func (c Client) NewWriter(ctx context.Context, name string) io.WriteCloser {
	return StorageClient.Bucket(bucketName).Object(name).NewWriter(ctx)
}

//SignedURL Generates a V4 signed URL for the named object. The payload is
//signed through the IAM credentials API on behalf of the signer account, so
//no private key has to be mounted into the function.
func (c Client) SignedURL(name string, method string, expires time.Time) (string, error) {
	return storage.SignedURL(bucketName, name, signedURLOptions(method, expires))
}

func signedURLOptions(method string, expires time.Time) *storage.SignedURLOptions {
	return &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         method,
		Expires:        expires,
		GoogleAccessID: signerID,
		SignBytes:      signBlob,
	}
}

func signBlob(payload []byte) ([]byte, error) {
	resp, err := iamClient.SignBlob(context.Background(), &credentialspb.SignBlobRequest{
		Name:    serviceAccountResource(signerID),
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}
	return resp.SignedBlob, nil
}

func serviceAccountResource(email string) string {
	return "projects/-/serviceAccounts/" + email
}
