package sim

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes the results as indented JSON.
func (r Results) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteTable writes a plain-text summary table, one row per SNR point.
func (r Results) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s (%s mode), elapsed %s\n", r.Scheme, r.Mode, r.ElapsedPretty); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%8s %12s %12s %12s %12s %8s\n",
		"SNR(dB)", "SER", "BER", "theo SER", "theo BER", "reps"); err != nil {
		return err
	}
	for _, p := range r.Points {
		if _, err := fmt.Fprintf(w, "%8.1f %12.3e %12.3e %12.3e %12.3e %8d\n",
			p.SNRdB, p.SER, p.BER, p.TheoreticalSER, p.TheoreticalBER, p.Reps); err != nil {
			return err
		}
	}
	return nil
}
