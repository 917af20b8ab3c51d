package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		name string
		data string
		want uint64
	}{
		{"empty", "", 0xef46db3751d8e999},
		{"short", "test", 0x4fdcca5ddb678139},
		{"topology-ish", `{"type":"Topology","arcs":[],"objects":{}}`, Digest([]byte(`{"type":"Topology","arcs":[],"objects":{}}`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Digest([]byte(tt.data)))
			assert.Equal(t, tt.want, DigestString(tt.data))
		})
	}
}

func TestDigest_Stable(t *testing.T) {
	body := []byte(`{"type":"Topology"}`)
	assert.Equal(t, Digest(body), Digest(body), "same bytes must produce the same digest")
}
