// Command temporalcore is the operator CLI for the bitemporal
// agent-memory core: rehydrating filesystem state and replaying
// recorded tool calls against an in-memory or filesystem-backed pair
// of collaborators, for local inspection and demos.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agentrecall/temporalcore/blobstore"
	azurestore "github.com/agentrecall/temporalcore/blobstore/azure"
	b2store "github.com/agentrecall/temporalcore/blobstore/b2"
	"github.com/agentrecall/temporalcore/blobstore/caching"
	fsstore "github.com/agentrecall/temporalcore/blobstore/filesystem"
	gcsstore "github.com/agentrecall/temporalcore/blobstore/gcs"
	bloblogging "github.com/agentrecall/temporalcore/blobstore/logging"
	s3store "github.com/agentrecall/temporalcore/blobstore/s3"
	"github.com/agentrecall/temporalcore/cli"
	"github.com/agentrecall/temporalcore/graph"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the operator CLI against a cached in-memory Graph Store and
// whichever Blob Store backend the environment asks for: a remote
// bucket (GCS, S3, Azure, or B2) behind a bounded in-memory cache, a
// bare filesystem directory when only TEMPORALCORE_BLOB_DIR is set, or
// the in-memory default otherwise. TEMPORALCORE_VERBOSE additionally
// wraps whichever Blob Store was chosen with a logging decorator.
func run() error {
	ctx := context.Background()
	g := graph.NewQueryCache(graph.NewMemory(), 256)
	defer g.Close()

	var b blobstore.Store = blobstore.NewMemory()

	if dir := os.Getenv("TEMPORALCORE_BLOB_DIR"); dir != "" {
		fsBackend, err := fsstore.New(dir)
		if err != nil {
			return err
		}
		b = fsBackend
	}

	if bucket := os.Getenv("TEMPORALCORE_GCS_BUCKET"); bucket != "" {
		client, err := gcsstore.NewDefaultClient(ctx)
		if err != nil {
			return fmt.Errorf("gcs client: %w", err)
		}
		remote := gcsstore.New(client, bucket)
		b = caching.NewWrapper(remote, 256<<20)
	}

	if bucket := os.Getenv("TEMPORALCORE_S3_BUCKET"); bucket != "" {
		client, err := s3store.NewClient(
			os.Getenv("TEMPORALCORE_S3_ENDPOINT"),
			os.Getenv("TEMPORALCORE_S3_ACCESS_KEY"),
			os.Getenv("TEMPORALCORE_S3_SECRET_KEY"),
			os.Getenv("TEMPORALCORE_S3_INSECURE") == "")
		if err != nil {
			return fmt.Errorf("s3 client: %w", err)
		}
		b = caching.NewWrapper(s3store.New(client, bucket), 256<<20)
	}

	if container := os.Getenv("TEMPORALCORE_AZURE_CONTAINER"); container != "" {
		client, err := azurestore.NewSharedKeyClient(
			os.Getenv("TEMPORALCORE_AZURE_ACCOUNT"),
			os.Getenv("TEMPORALCORE_AZURE_KEY"))
		if err != nil {
			return fmt.Errorf("azure client: %w", err)
		}
		b = caching.NewWrapper(azurestore.New(client, container), 256<<20)
	}

	if bucket := os.Getenv("TEMPORALCORE_B2_BUCKET"); bucket != "" {
		remote, err := b2store.OpenBucket(
			os.Getenv("TEMPORALCORE_B2_KEY_ID"),
			os.Getenv("TEMPORALCORE_B2_KEY"),
			bucket)
		if err != nil {
			return fmt.Errorf("b2 bucket: %w", err)
		}
		b = caching.NewWrapper(remote, 256<<20)
	}

	if os.Getenv("TEMPORALCORE_VERBOSE") != "" {
		b = bloblogging.NewWrapper(b, bloblogging.Prefix("temporalcore: "))
	}

	app := cli.New(g, b)
	return app.Run(os.Args[1:])
}
