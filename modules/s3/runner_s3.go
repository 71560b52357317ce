package s3

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/bggflow/internal/ctxlog"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	Action     string `bgf:"action"`
	SourcePath string `bgf:"source_path"`
	UploadURL  string `bgf:"upload_url"`
}

// Deps declares the resources this runner needs injected.
type Deps struct {
	Client *http.Client `bgf:"http"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	Success bool   `cty:"success"`
	Status  string `cty:"status"`
}

// onRunS3 is the handler for the 's3' runner's on_run lifecycle event.
func onRunS3(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	switch strings.ToLower(input.Action) {
	case "upload":
		return handleUpload(ctx, deps, input)
	default:
		return nil, fmt.Errorf("unknown s3 action: '%s'", input.Action)
	}
}

// handleUpload uploads a file to a pre-signed URL.
func handleUpload(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(input.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", input.SourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", input.SourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, input.UploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(input.SourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3", "source", input.SourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := deps.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded file", "status", resp.Status)
	return &Output{Success: true, Status: resp.Status}, nil
}
