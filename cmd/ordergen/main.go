package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

const sampleOrder = `{
  "customer": {"name": "Ali", "phone": "123", "address": "Tunis"},
  "items": [{"name": "Pizza", "size": "M"}],
  "total": 15
}`

// ordergen posts one order to the intake API: either a built-in sample
// (-sample) or JSON read from stdin.
func main() {
	url := flag.String("url", "http://localhost:8000/api/orders", "intake endpoint")
	sample := flag.Bool("sample", false, "send the built-in sample order instead of reading stdin")
	flag.Parse()

	var body []byte
	if *sample {
		body = []byte(sampleOrder)
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Fatalf("parse json from stdin: %v", err)
		}
		body = raw
	}

	resp, err := http.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("post order: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s %s\n", resp.Status, bytes.TrimSpace(out))
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
