package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportReplyEmail_EscapesUserText(t *testing.T) {
	body := supportReplyEmail(`Sam <b>Lee</b>`, `Refund & "billing"`, `<script>alert(1)</script>`)

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<b>Lee</b>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, body, "Sam &lt;b&gt;Lee&lt;/b&gt;")
	assert.Contains(t, body, "Refund &amp; &#34;billing&#34;")
}
