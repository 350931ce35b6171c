// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/mdrst/internal/container"
)

// ContainerConverter converts text by piping it through the pandoc image
// in a container runtime and writing the captured output to disk.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
}

// NewContainerConverter returns a converter that runs image with rt,
// pulling the image first when it is not present locally.
func NewContainerConverter(ctx context.Context, rt container.Runtime, image string) (*ContainerConverter, error) {
	if err := container.EnsureImage(ctx, rt, image); err != nil {
		return nil, fmt.Errorf("pandoc image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image}, nil
}

// ConvertText runs pandoc in the container and writes its stdout to
// outputPath.
func (c *ContainerConverter) ConvertText(ctx context.Context, text string, formats Formats, outputPath string) error {
	args := []string{"--from", formats.From, "--to", formats.To}

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, args, strings.NewReader(text), &out); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}
