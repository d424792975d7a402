package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-spotadmin/components/listing"
)

type checkCmd struct {
	Path string `arg:"" type:"existingfile" help:"Listing file (YAML or JSON)."`
}

func (cmd *checkCmd) Run(_ context.Context, out io.Writer) error {
	l, err := readListing(cmd.Path)
	if err != nil {
		return err
	}
	if err := listing.NewJSONSchemaValidator().Validate(l); err != nil {
		return fmt.Errorf("spotctl: %s: %w", cmd.Path, err)
	}
	printf(out, "✓ %s is a valid listing (%s, %d documents, %d images)\n",
		cmd.Path, l.Name, len(l.Documents), len(l.Images))
	if names := l.DocumentNames(); len(names) > 0 {
		printf(out, "  documents: %s\n", strings.Join(names, ", "))
	}
	return nil
}

// readListing decodes YAML or JSON; JSON is a YAML subset.
func readListing(path string) (listing.Listing, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return listing.Listing{}, fmt.Errorf("spotctl: open listing: %w", err)
	}
	defer f.Close()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var l listing.Listing
	if err := decoder.Decode(&l); err != nil {
		if err == io.EOF {
			return listing.Listing{}, fmt.Errorf("spotctl: listing %s is empty", path)
		}
		return listing.Listing{}, fmt.Errorf("spotctl: parse listing %s: %w", path, err)
	}
	return l, nil
}
