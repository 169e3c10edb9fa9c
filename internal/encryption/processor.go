package encryption

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/tink"

	"github.com/idelchi/gogen/pkg/key"

	"github.com/RokLenarcic/buddy-core/internal/config"
	"github.com/RokLenarcic/buddy-core/internal/fileutil"
	"github.com/RokLenarcic/buddy-core/pkg/crypto"
	"github.com/RokLenarcic/buddy-core/pkg/nonce"
)

// DeterministicKeySize is the required key size for the AES-SIV mode.
const DeterministicKeySize = 64

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// algorithm is the composite scheme used outside deterministic mode
	algorithm crypto.Algorithm

	// daead provides deterministic authenticated encryption
	daead tink.DeterministicAEAD

	// key stores raw key bytes
	key []byte

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a Processor from the validated configuration,
// loading the key and pre-building the deterministic primitive when the
// mode is known up front.
func NewProcessor(cfg *config.Config) (*Processor, error) {
	rawKey, err := loadKey(cfg)
	if err != nil {
		return nil, err
	}

	algorithm, err := crypto.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("parsing algorithm: %w", err)
	}

	processor := &Processor{
		cfg:       cfg,
		algorithm: algorithm,
		key:       rawKey,
		results:   make(chan Result, len(cfg.Files)),
	}

	switch {
	case cfg.Decrypt:
		// The exact scheme comes from each file's envelope; only reject
		// keys that cannot fit any scheme.
		if !validKeySize(len(rawKey)) {
			return nil, fmt.Errorf("decrypt: %w: %d bytes fits no supported scheme", ErrKeySize, len(rawKey))
		}
	case cfg.Deterministic:
		if len(rawKey) != DeterministicKeySize {
			return nil, fmt.Errorf("encrypt: %w: deterministic mode requires %d bytes", ErrKeySize, DeterministicKeySize)
		}

		if err := processor.initDeterministic(); err != nil {
			return nil, err
		}
	default:
		if len(rawKey) != algorithm.KeySize() {
			return nil, fmt.Errorf("encrypt: %w: %s requires %d bytes, got %d",
				ErrKeySize, algorithm, algorithm.KeySize(), len(rawKey))
		}
	}

	return processor, nil
}

// loadKey reads the hex-encoded key from the flag or the key file.
func loadKey(cfg *config.Config) ([]byte, error) {
	encoded := cfg.Key

	if cfg.KeyFile != "" {
		content, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		encoded = strings.TrimSpace(string(content))
	}

	decoded, err := key.FromHex(encoded)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	return decoded, nil
}

func validKeySize(size int) bool {
	if size == DeterministicKeySize {
		return true
	}

	for _, alg := range crypto.Algorithms() {
		if size == alg.KeySize() {
			return true
		}
	}

	return false
}

func (p *Processor) initDeterministic() error {
	handle, err := newDeterministicKeyHandle(p.key)
	if err != nil {
		return fmt.Errorf("creating keyset handle: %w", err)
	}

	primitive, err := daead.New(handle)
	if err != nil {
		return fmt.Errorf("creating DeterministicAEAD: %w", err)
	}

	p.daead = primitive

	return nil
}

// ProcessFiles concurrently processes all files specified in the configuration.
// Returns the number of successfully processed files, the number of errors,
// and the total output size.
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			processed, errored, totalSize = p.report(result, processed, errored, totalSize)
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for the printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// report prints one result and folds it into the running counters.
func (p *Processor) report(result Result, processed, errored int, totalSize int64) (int, int, int64) {
	if result.Error != nil {
		errored++

		fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)

		return processed, errored, totalSize
	}

	processed++
	totalSize += result.OutputSize

	if !p.cfg.Quiet {
		fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
	}

	if p.cfg.Delete {
		if err := os.Remove(result.Input); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", result.Input, err)
		} else if !p.cfg.Quiet {
			fmt.Printf("Deleted %q\n", result.Input) //nolint:forbidigo
		}
	}

	return processed, errored, totalSize
}

// encrypt writes the envelope header and the encrypted body for one file.
func (p *Processor) encrypt(reader io.Reader, writer io.Writer, isExec bool) error {
	if p.cfg.Deterministic {
		header := newEnvelopeHeader(schemeDeterministic, isExec)
		if _, err := writer.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}

		return p.encryptDeterministic(reader, writer, header)
	}

	header := newEnvelopeHeader(schemeForAlgorithm(p.algorithm), isExec)
	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	iv, err := nonce.RandomBytes(p.algorithm.IVSize())
	if err != nil {
		return fmt.Errorf("generating IV: %w", err)
	}

	if _, err := writer.Write(iv); err != nil {
		return fmt.Errorf("writing IV: %w", err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading plaintext: %w", err)
	}

	payload, err := crypto.Encrypt(plaintext, p.key, iv, p.sealOptions(header)...)
	if err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}

	if _, err := writer.Write(payload); err != nil {
		return fmt.Errorf("writing ciphertext: %w", err)
	}

	return nil
}

// decrypt reads the envelope header, dispatches on its scheme and writes
// the recovered plaintext. It returns whether the original file was
// executable.
func (p *Processor) decrypt(reader io.Reader, writer io.Writer) (bool, error) {
	header := make([]byte, envelopeHeaderSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return false, fmt.Errorf("reading header: %w", err)
	}

	scheme, exec, err := parseEnvelopeHeader(header)
	if err != nil {
		return false, err
	}

	if scheme == schemeDeterministic {
		if len(p.key) != DeterministicKeySize {
			return false, fmt.Errorf("decrypt: %w: deterministic data requires %d bytes",
				ErrKeySize, DeterministicKeySize)
		}

		if p.daead == nil {
			if err := p.initDeterministic(); err != nil {
				return false, err
			}
		}

		return exec, p.decryptDeterministic(reader, writer, header)
	}

	algorithm, err := algorithmForScheme(scheme)
	if err != nil {
		return false, err
	}

	if len(p.key) != algorithm.KeySize() {
		return false, fmt.Errorf("decrypt: %w: %s requires %d bytes, got %d",
			ErrKeySize, algorithm, algorithm.KeySize(), len(p.key))
	}

	iv := make([]byte, algorithm.IVSize())
	if _, err := io.ReadFull(reader, iv); err != nil {
		return false, fmt.Errorf("reading IV: %w", err)
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		return false, fmt.Errorf("reading ciphertext: %w", err)
	}

	opts := []crypto.Option{crypto.WithAlgorithm(algorithm)}
	if algorithm.IsAEAD() {
		opts = append(opts, crypto.WithAAD(header))
	}

	plaintext, err := crypto.Decrypt(payload, p.key, iv, opts...)
	if err != nil {
		if crypto.IsAuthentication(err) {
			return false, fmt.Errorf("%w: authentication failed", ErrEnvelope)
		}

		return false, fmt.Errorf("decrypting: %w", err)
	}

	if _, err := writer.Write(plaintext); err != nil {
		return false, fmt.Errorf("writing plaintext: %w", err)
	}

	return exec, nil
}

// sealOptions binds the envelope header into the tag for schemes that
// authenticate associated data.
func (p *Processor) sealOptions(header []byte) []crypto.Option {
	opts := []crypto.Option{crypto.WithAlgorithm(p.algorithm)}

	if p.algorithm.IsAEAD() {
		opts = append(opts, crypto.WithAAD(header))
	}

	return opts
}

// processFile handles one file: encrypt or decrypt into a temp file, then
// rename atomically over the output path.
func (p *Processor) processFile(filename, outPath string) (size int64, err error) {
	atomic, err := fileutil.BeginAtomic(filename, outPath)
	if err != nil {
		return 0, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer atomic.Abort()

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	var exec bool

	if p.cfg.Decrypt {
		exec, err = p.decrypt(inFile, atomic.File)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		exec = atomic.IsExec

		if err := p.encrypt(inFile, atomic.File, exec); err != nil {
			return 0, fmt.Errorf("encrypting file: %w", err)
		}
	}

	if err := inFile.Close(); err != nil {
		return 0, fmt.Errorf("closing input file: %w", err)
	}

	if err := atomic.Commit(outPath, exec); err != nil {
		return 0, err
	}

	return fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, atomic.SrcInfo.ModTime())
}

// outputPath derives the output file path from the configured suffixes.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.EncryptSuffix

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.EncryptSuffix)
		ext = p.cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
