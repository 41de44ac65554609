package harmonize

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType sniffs the leading bytes of a stream and reports which
// compression wrapper, if any, it carries. Short inputs (a tiny uncompressed
// mapping file, say) are reported as uncompressed.
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return DataTypeNoCompression, nil
		}
		return DataTypeInvalid, err
	}
	buff = buff[:n]

Outer:
	for dt, sig := range byteCodeSigs {
		if len(sig) > len(buff) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// OpenRaw opens a raw data file, transparently unwrapping gzip, zip, xz, Z and
// bzip2 payloads. The caller closes the returned reader, which also closes the
// underlying file.
func OpenRaw(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	rc, err := MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	return rc, nil
}

// MaybeDecompressReadCloserFromFile rewinds f after sniffing it and wraps it
// in the matching decompressor.
func MaybeDecompressReadCloserFromFile(f *os.File) (io.ReadCloser, error) {
	dt, err := DetectDataType(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch dt {
	case DataTypeGzip:
		r, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &fileBackedReadCloser{Reader: r, inner: r, file: f}, nil
	case DataTypeZip:
		return &fileBackedReadCloser{Reader: zipstream.NewReader(f), file: f}, nil
	case DataTypeBZip2:
		return &fileBackedReadCloser{Reader: bzip2.NewReader(f), file: f}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &fileBackedReadCloser{Reader: reader, file: f}, nil
	case DataTypeZ:
		r, err := zlib.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &fileBackedReadCloser{Reader: r, inner: r, file: f}, nil
	}

	return f, nil
}

// fileBackedReadCloser closes both the decompressor (when it needs closing)
// and the file it reads from.
type fileBackedReadCloser struct {
	io.Reader
	inner io.Closer
	file  *os.File
}

func (c *fileBackedReadCloser) Close() error {
	if c.inner != nil {
		if err := c.inner.Close(); err != nil {
			c.file.Close()
			return err
		}
	}
	return c.file.Close()
}
