package scraper

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSolutionLinks(t *testing.T) {
	base, _ := url.Parse("https://leetcode.com/problems/two-sum/solutions/?languageTags=java")
	page := `<html><body>
		<a href="/problems/two-sum/solutions/">All</a>
		<a href="/problems/two-sum/solutions/?languageTags=java">Java</a>
		<a href="/problems/two-sum/solutions/111/fast/">A</a>
		<a href="https://leetcode.com/problems/two-sum/solutions/222/simple/#top">B</a>
		<a href="/problems/two-sum/solutions/111/fast/">A again</a>
		<a href="/problems/two-sum/description/">Description</a>
		<a>no href</a>
	</body></html>`

	got := SolutionLinks(page, base)
	want := []string{
		"https://leetcode.com/problems/two-sum/solutions/111/fast/",
		"https://leetcode.com/problems/two-sum/solutions/222/simple/",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SolutionLinks mismatch (-want +got):\n%s", diff)
	}
}

func TestCodeBlocks_OrderAndFilters(t *testing.T) {
	page := `<html><body>
		<pre>plain pre block that is long enough</pre>
		<p><code class="language-java">tagged code element is long enough</code></p>
		<pre><code>class Solution {<br>  int x;
}</code></pre>
		<code>tiny</code>
		<pre><code>class Solution {<br>  int x;
}</code></pre>
	</body></html>`

	got := CodeBlocks(page)
	want := []string{
		"class Solution {\n  int x;\n}",
		"tagged code element is long enough",
		"plain pre block that is long enough",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CodeBlocks mismatch (-want +got):\n%s", diff)
	}
}

func TestCodeBlocks_Empty(t *testing.T) {
	assert.Empty(t, CodeBlocks("<html><body><p>nothing here</p></body></html>"))
}

func TestVisitOrder(t *testing.T) {
	assert.Equal(t, []int{0}, visitOrder(1, 10))
	assert.Equal(t, []int{1, 2, 3, 0}, visitOrder(4, 10))
	assert.Equal(t, []int{1, 2, 3}, visitOrder(15, 3))
}
