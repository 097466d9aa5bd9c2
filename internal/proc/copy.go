package proc

import "io"

// copyBufferSize is the chunk size used for each read/write cycle when
// io.CopyBuffer copies through the buffer.
const copyBufferSize = 32 * 1024

// Copy transfers bytes from src to dst until EOF or error, in fixed-size
// chunks, except that io.CopyBuffer hands the whole copy to src's WriteTo
// or dst's ReadFrom when either exists (as with *os.File), which then
// chooses its own transfer size. Go's io.Reader/io.Writer implementations already retry reads
// and writes that are interrupted by a signal inside the runtime poller,
// so no explicit interrupted-syscall retry loop is needed here.
func Copy(dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(dst, src, buf); err != nil {
		return &IOError{Op: "copy", Err: err}
	}
	return nil
}
