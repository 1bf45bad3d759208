package app

import (
	"fmt"
	"io"

	"github.com/five82/auragen/internal/meditation"
)

func writeDelivery(w io.Writer, location string, d meditation.Delivery) error {
	if _, err := fmt.Fprintf(w, "%s · %s\n\n", location, d.Source.Label()); err != nil {
		return err
	}
	for i, line := range d.Script {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, line); err != nil {
			return err
		}
	}
	if d.Notice != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", d.Notice); err != nil {
			return err
		}
	}
	return nil
}
