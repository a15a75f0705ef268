package cmd

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/vlasovmk/marketctl/internal/market"
)

func TestDraftFromFlags(t *testing.T) {
	c := &cobra.Command{}
	draftFlags(c)
	if err := c.ParseFlags([]string{
		"--title", "Lamp",
		"--price", "500",
		"--description", "desk lamp",
		"--image", "http://x/y.jpg",
	}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	want := market.Draft{Title: "Lamp", Price: 500, Description: "desk lamp", Image: "http://x/y.jpg"}
	if got := draftFromFlags(c); got != want {
		t.Fatalf("draft = %+v, want %+v", got, want)
	}
}

func TestDraftFromFlags_Defaults(t *testing.T) {
	c := &cobra.Command{}
	draftFlags(c)
	if err := c.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if got := draftFromFlags(c); got != (market.Draft{}) {
		t.Fatalf("draft = %+v, want zero", got)
	}
}
