// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// commandRunner runs name with args, wiring the standard streams.
type commandRunner func(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error

func runCommand(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// PandocConverter converts text with a pandoc binary on the host. Pandoc
// writes the output file itself.
type PandocConverter struct {
	bin string
	run commandRunner
}

// NewPandocConverter returns a converter that runs the pandoc binary at bin.
func NewPandocConverter(bin string) *PandocConverter {
	return &PandocConverter{bin: bin, run: runCommand}
}

// ConvertText pipes text through pandoc into outputPath.
func (p *PandocConverter) ConvertText(ctx context.Context, text string, formats Formats, outputPath string) error {
	args := []string{"--from", formats.From, "--to", formats.To, "--output", outputPath}

	var stderr bytes.Buffer
	if err := p.run(ctx, p.bin, args, strings.NewReader(text), io.Discard, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("pandoc %s -> %s: %w: %s", formats.From, formats.To, err, msg)
		}
		return fmt.Errorf("pandoc %s -> %s: %w", formats.From, formats.To, err)
	}
	return nil
}
