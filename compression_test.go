//nolint:errcheck // Test cleanup error handling is intentionally ignored
package csvsql

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/nao1215/csvsql/domain/model"
	"github.com/ulikunitz/xz"
)

// TestCompressionHandlerInterface tests the CompressionHandler interface implementation
func TestCompressionHandlerInterface(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		compressionType model.CompressionType
		extension       string
		canWrite        bool
	}{
		{
			name:            "No compression",
			compressionType: model.CompressionNone,
			extension:       "",
			canWrite:        true,
		},
		{
			name:            "Gzip compression",
			compressionType: model.CompressionGZ,
			extension:       ".gz",
			canWrite:        true,
		},
		{
			name:            "Bzip2 compression",
			compressionType: model.CompressionBZ2,
			extension:       ".bz2",
			canWrite:        false,
		},
		{
			name:            "XZ compression",
			compressionType: model.CompressionXZ,
			extension:       ".xz",
			canWrite:        true,
		},
		{
			name:            "ZSTD compression",
			compressionType: model.CompressionZSTD,
			extension:       ".zst",
			canWrite:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewCompressionHandler(tt.compressionType)
			if got := handler.Extension(); got != tt.extension {
				t.Errorf("Extension() = %v, want %v", got, tt.extension)
			}

			testData := []byte("id,name\n1,alice\n")
			var compressedData bytes.Buffer

			switch tt.compressionType {
			case model.CompressionNone:
				compressedData.Write(testData)
			case model.CompressionGZ:
				gzWriter := gzip.NewWriter(&compressedData)
				_, _ = gzWriter.Write(testData)
				_ = gzWriter.Close()
			case model.CompressionBZ2:
				// nothing in the dependency set writes bzip2
				t.Skip("Skipping bzip2 reader test (no writer available)")
			case model.CompressionXZ:
				xzWriter, err := xz.NewWriter(&compressedData)
				if err != nil {
					t.Fatalf("Failed to create xz writer: %v", err)
				}
				_, _ = xzWriter.Write(testData)
				_ = xzWriter.Close()
			case model.CompressionZSTD:
				zstdWriter, err := zstd.NewWriter(&compressedData)
				if err != nil {
					t.Fatalf("Failed to create zstd writer: %v", err)
				}
				_, _ = zstdWriter.Write(testData)
				_ = zstdWriter.Close()
			}

			reader, cleanup, err := handler.CreateReader(&compressedData)
			if err != nil {
				t.Fatalf("CreateReader() error = %v", err)
			}
			defer cleanup()

			readData, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("Failed to read data: %v", err)
			}
			if !bytes.Equal(readData, testData) {
				t.Errorf("Read data = %q, want %q", readData, testData)
			}

			var output bytes.Buffer
			_, writeCleanup, err := handler.CreateWriter(&output)
			if tt.canWrite {
				if err != nil {
					t.Fatalf("CreateWriter() error = %v, want nil", err)
				}
				_ = writeCleanup()
			} else if !errors.Is(err, ErrUnsupportedCompression) {
				t.Errorf("CreateWriter() error = %v, want %v", err, ErrUnsupportedCompression)
			}
		})
	}
}

// TestOpenOutput writes through OpenOutput and reads back through openCompressedFile
func TestOpenOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fileName    string
		compression model.CompressionType
	}{
		{name: "plain", fileName: "out.csv", compression: model.CompressionNone},
		{name: "gzip from extension", fileName: "out.csv.gz", compression: model.CompressionNone},
		{name: "xz from extension", fileName: "out.csv.xz", compression: model.CompressionNone},
		{name: "zstd from extension", fileName: "out.csv.zst", compression: model.CompressionNone},
		{name: "explicit gzip", fileName: "explicit.csv.gz", compression: model.CompressionGZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			testData := []byte("This is test data for compression testing.\nLine 2\nLine 3")
			path := filepath.Join(t.TempDir(), tt.fileName)

			writer, cleanup, err := OpenOutput(path, tt.compression)
			if err != nil {
				t.Fatalf("OpenOutput() error = %v", err)
			}
			if _, err := writer.Write(testData); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := cleanup(); err != nil {
				t.Fatalf("cleanup() error = %v", err)
			}

			reader, readCleanup, err := openCompressedFile(path)
			if err != nil {
				t.Fatalf("openCompressedFile() error = %v", err)
			}
			defer readCleanup()

			readData, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(readData, testData) {
				t.Errorf("Read data = %q, want %q", readData, testData)
			}
		})
	}

	t.Run("bzip2 is refused before the file is created", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.csv.bz2")
		_, _, err := OpenOutput(path, model.CompressionNone)
		if !errors.Is(err, ErrUnsupportedCompression) {
			t.Fatalf("OpenOutput() error = %v, want %v", err, ErrUnsupportedCompression)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Errorf("output file should not exist, stat error = %v", statErr)
		}
	})

	t.Run("gzip written as plain text is not detected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.csv.gz")
		if err := os.WriteFile(path, []byte("a,b\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, _, err := openCompressedFile(path); err == nil {
			t.Error("expected error for a corrupt gzip file, got nil")
		}
	})
}

// TestCompressionErrors tests error handling for file access
func TestCompressionErrors(t *testing.T) {
	t.Parallel()

	t.Run("openCompressedFile with non-existent file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := openCompressedFile("/non/existent/file.csv"); err == nil {
			t.Error("Expected error for non-existent file, got nil")
		}
	})

	t.Run("OpenOutput with invalid path", func(t *testing.T) {
		t.Parallel()

		if _, _, err := OpenOutput("/invalid\x00path/file.csv", model.CompressionNone); err == nil {
			t.Error("Expected error for invalid path, got nil")
		}
	})
}
