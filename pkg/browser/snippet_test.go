package browser

import (
	"strings"
	"testing"
)

func TestCleanSnippetStripsNoise(t *testing.T) {
	raw := `<div id="form">
		<script>alert("tracking")</script>
		<style>.hidden { display: none }</style>
		<!-- build marker -->
		<input id="user-name" type="text" value="standard_user" data-test="username">
		<label class="error">Epic sadface</label>
	</div>`

	snippet, err := CleanSnippet(raw, 2000)
	if err != nil {
		t.Fatal(err)
	}

	for _, banned := range []string{"script", "alert", "display: none", "build marker", "data-test"} {
		if strings.Contains(snippet.HTML, banned) {
			t.Errorf("cleaned snippet still contains %q:\n%s", banned, snippet.HTML)
		}
	}
	for _, kept := range []string{`id="user-name"`, `type="text"`, `value="standard_user"`, "Epic sadface"} {
		if !strings.Contains(snippet.HTML, kept) {
			t.Errorf("cleaned snippet lost %q:\n%s", kept, snippet.HTML)
		}
	}
	if snippet.Truncated {
		t.Error("snippet under the limit must not report truncation")
	}
}

func TestCleanSnippetTruncates(t *testing.T) {
	raw := "<p>" + strings.Repeat("lorem ipsum ", 500) + "</p>"

	snippet, err := CleanSnippet(raw, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !snippet.Truncated {
		t.Error("oversized content must report truncation")
	}
	if len(snippet.HTML) > 250 {
		t.Errorf("snippet length = %d, want close to the 200 limit", len(snippet.HTML))
	}
}

func TestCleanSnippetCollapsesWhitespace(t *testing.T) {
	snippet, err := CleanSnippet("<span>  Hello \n\t world  </span>", 2000)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(snippet.HTML, "Hello world") {
		t.Errorf("whitespace not collapsed: %q", snippet.HTML)
	}
}
