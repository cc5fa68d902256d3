package ismingest_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/autobrr/go-ismingest/pkg/ismingest"
)

func TestProxyAPI(t *testing.T) {
	var _ ismingest.Descriptor
	var _ ismingest.Kind = ismingest.KindVideo

	_, err := ismingest.ProcessDir(t.TempDir(), zerolog.Nop(), ismingest.Options{})
	if !errors.Is(err, ismingest.ErrEmptySource) {
		t.Fatalf("err=%v", err)
	}
}
