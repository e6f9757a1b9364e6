package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AndreyKolygin/jobgrab"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes an extraction result and reports a failed one as an
// error so the command exits non-zero.
func printResult(deps *Dependencies, res *jobgrab.ExtractionResult, out OutputFlags) error {
	if out.JSON {
		if err := writeJSON(deps.Stdout, res); err != nil {
			return err
		}
	}
	if !res.OK {
		err := jobgrab.Errorf(jobgrab.ENOTFOUND, "extraction failed: %s", res.Error)
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	if out.JSON {
		return nil
	}

	text := res.Text
	if out.Compose {
		text = jobgrab.ComposeJobText(res)
	}
	fmt.Fprintln(deps.Stdout, text)
	return nil
}
