package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_ToHTMLSanitized(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "numbered steps",
			input:    "1. Restart the router\n2. Check **cabling**",
			contains: []string{"<ol>", "<li>Restart the router</li>", "<strong>cabling</strong>"},
		},
		{
			name:        "script stripped",
			input:       "Fixed <script>alert('x')</script> today",
			contains:    []string{"Fixed"},
			notContains: []string{"<script>", "</script>"},
		},
		{
			name:     "bare urls linkified",
			input:    "See https://status.voicebox.com",
			contains: []string{`href="https://status.voicebox.com"`},
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.ToHTMLSanitized(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}
