// Command fakeresolver is a scripted stand-in for a real documentation
// resolver peer, used by the transport package's integration tests to
// drive a real child process end to end rather than a mocked Transport.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
)

func main() {
	bundleID := flag.String("bundle-id", "com.example.Docs", "bundle identifier to announce at handshake")
	resendBundleID := flag.Bool("resend-bundle-id", false, "illegally re-announce the bundle id after the first request")
	exitAfter := flag.Int("exit-after", -1, "exit without replying after N requests (-1 disables)")
	flag.Parse()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	fmt.Fprintf(out, "%s\n", jsonString("bundleIdentifier", *bundleID))
	out.Flush()

	fmt.Fprintln(os.Stderr, "fakeresolver: handshake sent")

	in := bufio.NewReader(os.Stdin)
	count := 0
	for {
		line, err := in.ReadString('\n')
		if line == "" && err != nil {
			return
		}
		count++

		if *exitAfter >= 0 && count > *exitAfter {
			return
		}

		if *resendBundleID {
			fmt.Fprintf(out, "%s\n", jsonString("bundleIdentifier", *bundleID))
			out.Flush()
			continue
		}

		fmt.Fprintf(out, "%s\n", respond(line))
		out.Flush()
	}
}

func respond(line string) string {
	switch {
	case strings.Contains(line, `"topic"`):
		url := extractValue(line, "topic")
		if strings.Contains(url, "error") {
			return jsonString("errorMessage", "unknown topic")
		}
		if strings.Contains(url, "garbled-kind") {
			return `{"somethingElse":"x"}`
		}
		title := url[strings.LastIndex(url, "/")+1:]
		return fmt.Sprintf(`{"resolvedInformation":{"kind":{"name":"Article","id":"article","isSymbol":false},"url":"https://example.com/%s","title":"%s","abstract":"Resolved %s.","language":{"name":"Swift","id":"swift"}}}`, title, title, title)

	case strings.Contains(line, `"symbol"`):
		id := extractValue(line, "symbol")
		return fmt.Sprintf(`{"resolvedInformation":{"kind":{"name":"Class","id":"class","isSymbol":true},"url":"https://example.com/symbols/%s","title":"%s","abstract":"A symbol.","language":{"name":"Swift","id":"swift"},"platforms":[{"name":"Mac Catalyst","introduced":"13.5"}]}}`, id, id)

	case strings.Contains(line, `"asset"`):
		name := extractValue(line, "assetName")
		if name == "" {
			return jsonString("errorMessage", "missing asset name")
		}
		return fmt.Sprintf(`{"asset":{"filename":"%s","contentType":"application/octet-stream","data":""}}`, name)

	default:
		return jsonString("errorMessage", "unrecognized request")
	}
}

// extractValue is a deliberately minimal string-level field extractor:
// fakeresolver only ever needs to pull a handful of known string fields out
// of a request line, so it doesn't carry a JSON decoder of its own.
func extractValue(line, key string) string {
	marker := `"` + key + `":"`
	idx := strings.Index(line, marker)
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func jsonString(key, value string) string {
	return fmt.Sprintf(`{"%s":"%s"}`, key, value)
}
