package encryption

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_sivpb "github.com/tink-crypto/tink-go/v2/proto/aes_siv_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"

	"google.golang.org/protobuf/proto"
)

// chunkSize is the plaintext chunk length of the deterministic stream.
const chunkSize = 64 * 1024

// encryptDeterministic streams plaintext through the chunked AES-SIV
// writer. The envelope header is bound into every chunk's associated data.
func (p *Processor) encryptDeterministic(reader io.Reader, writer io.Writer, header []byte) error {
	chunked := newChunkedWriter(writer, p.daead, header)
	defer chunked.Close()

	buf, ok := copyPool.Get().([]byte)
	if !ok {
		return errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer copyPool.Put(buf) //nolint:staticcheck

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if _, err := chunked.Write(buf[:n]); err != nil {
				return fmt.Errorf("writing to chunked stream: %w", err)
			}
		}

		if err == io.EOF {
			return chunked.Close()
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
}

// decryptDeterministic reads length-prefixed chunks and decrypts them in
// order; the chunk index in the associated data rejects reordering.
func (p *Processor) decryptDeterministic(reader io.Reader, writer io.Writer, header []byte) error {
	bufReader := bufio.NewReader(reader)

	var index uint64

	for {
		var length uint32
		if err := binary.Read(bufReader, binary.BigEndian, &length); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading chunk size: %w", err)
		}

		encrypted := make([]byte, length)
		if _, err := io.ReadFull(bufReader, encrypted); err != nil {
			return fmt.Errorf("reading encrypted chunk: %w", err)
		}

		decrypted, err := p.daead.DecryptDeterministically(encrypted, chunkAssociatedData(header, index))
		if err != nil {
			return fmt.Errorf("%w: decrypting chunk %d: %w", ErrEnvelope, index, err)
		}

		if _, err := writer.Write(decrypted); err != nil {
			return fmt.Errorf("writing decrypted chunk: %w", err)
		}

		index++
	}
}

// newDeterministicKeyHandle wraps raw AES-SIV key bytes in a tink keyset
// handle so the DAEAD primitive can be constructed from them.
func newDeterministicKeyHandle(key []byte) (*keyset.Handle, error) {
	aesSivKey := &aes_sivpb.AesSivKey{
		Version:  0,
		KeyValue: key,
	}

	serializedKey, err := proto.Marshal(aesSivKey)
	if err != nil {
		return nil, fmt.Errorf("serializing AesSivKey: %w", err)
	}

	keyData := &tinkpb.KeyData{
		TypeUrl:         "type.googleapis.com/google.crypto.tink.AesSivKey",
		Value:           serializedKey,
		KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData:          keyData,
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(
		keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	return handle, nil
}

// chunkAssociatedData binds the envelope header and the chunk position
// into the deterministic tag.
func chunkAssociatedData(header []byte, index uint64) []byte {
	const indexSize = 8

	ad := make([]byte, len(header)+indexSize)
	copy(ad, header)
	binary.BigEndian.PutUint64(ad[len(header):], index)

	return ad
}
