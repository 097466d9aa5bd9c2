package proc_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flowrun/internal/proc"
)

func TestCopyTransfersAllBytes(t *testing.T) {
	var dst bytes.Buffer
	src := strings.NewReader("the quick brown fox")

	require.NoError(t, proc.Copy(&dst, src))
	assert.Equal(t, "the quick brown fox", dst.String())
}

func TestCopyEmptySourceProducesEmptyOutput(t *testing.T) {
	var dst bytes.Buffer
	require.NoError(t, proc.Copy(&dst, strings.NewReader("")))
	assert.Empty(t, dst.Bytes())
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestCopyWrapsReadError(t *testing.T) {
	var dst bytes.Buffer
	err := proc.Copy(&dst, errReader{})
	require.Error(t, err)

	var ioErr *proc.IOError
	require.ErrorAs(t, err, &ioErr)
}

var _ io.Reader = errReader{}
