package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

// Raw inference payloads (full prompt + response text) can be very large, so
// they go to a dedicated writer instead of the main log stream.

var (
	dumpMu      sync.Mutex
	dumpLog     *log.Logger
	dumpEnabled bool
)

func SetDumpWriter(w io.Writer) {
	dumpMu.Lock()
	defer dumpMu.Unlock()
	if w == nil {
		dumpLog = nil
		return
	}
	dumpLog = log.New(w, "", log.LstdFlags)
}

func EnablePayloadDump(enabled bool) {
	dumpMu.Lock()
	dumpEnabled = enabled
	dumpMu.Unlock()
}

type dumpSection struct {
	Title string
	Body  string
}

// DumpInference writes the raw prompt/response pair of a collected inference
// to the dump writer, tagged with the external message id.
func DumpInference(source, externalID, prompt, response string) {
	dumpMu.Lock()
	logger := dumpLog
	enabled := dumpEnabled
	dumpMu.Unlock()
	if logger == nil || !enabled {
		return
	}
	sections := []dumpSection{
		{Title: "PROMPT", Body: prompt},
		{Title: "RESPONSE", Body: response},
	}
	var b strings.Builder
	b.WriteString("[INFERENCE]")
	if source != "" {
		b.WriteString("[")
		b.WriteString(source)
		b.WriteString("]")
	}
	if externalID != "" {
		b.WriteString("[")
		b.WriteString(externalID)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("--- ")
		b.WriteString(sec.Title)
		b.WriteString(" ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	logger.Print(b.String())
}
