package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

const (
	metadataKey = "_segmenter"
	payloadKey  = "payload"
)

// ErrMissingMetadata indicates a json or binary artifact without its metadata block.
var ErrMissingMetadata = errors.New("artifact: missing _segmenter metadata")

// Store performs artifact IO.
type Store struct {
	now func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// NewStore builds a store.
func NewStore(opts ...StoreOption) *Store {
	store := &Store{now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Check inspects the artifact on disk and returns its status and metadata.
func (s *Store) Check(ref Ref) (CheckResult, error) {
	if err := ref.Validate(); err != nil {
		return CheckResult{Ref: ref, State: StateError, Err: err}, err
	}
	info, err := os.Stat(ref.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Ref: ref, State: StateMissing}, nil
		}
		return CheckResult{Ref: ref, State: StateError, Err: err}, err
	}
	if info.IsDir() {
		return invalidResult(ref, fmt.Errorf("artifact: expected file got directory"))
	}
	meta, _, err := s.Read(ref)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return CheckResult{Ref: ref, State: StateError, Err: err}, err
		}
		return invalidResult(ref, err)
	}
	return CheckResult{Ref: ref, State: StateReady, Metadata: &meta}, nil
}

// Read loads, decodes, and verifies an artifact.
func (s *Store) Read(ref Ref) (Metadata, Payload, error) {
	if err := ref.Validate(); err != nil {
		return Metadata{}, nil, err
	}
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return Metadata{}, nil, err
	}
	var (
		meta    Metadata
		payload Payload
	)
	switch ref.Kind {
	case KindJSON:
		meta, payload, err = decodeJSON(data)
	case KindBinary:
		meta, payload, err = decodeBinary(data)
	default:
		meta, payload, err = decodeDocument(data)
	}
	if err != nil {
		return Metadata{}, nil, err
	}
	if err := meta.ValidateFor(ref); err != nil {
		return Metadata{}, nil, err
	}
	if err := verifyChecksum(meta, payload); err != nil {
		return Metadata{}, nil, err
	}
	return meta, payload, nil
}

// Write persists the payload and metadata in the encoding of ref.Kind. The
// checksum is always recomputed from the payload.
func (s *Store) Write(ref Ref, payload Payload, meta Metadata) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	norm, err := payload.normalized()
	if err != nil {
		return err
	}
	prepared := meta.WithDefaults(ref, s.now())
	if err := prepared.ValidateFor(ref); err != nil {
		return err
	}
	if prepared.Checksum, err = Checksum(norm); err != nil {
		return err
	}
	var content []byte
	switch ref.Kind {
	case KindJSON:
		content, err = encodeJSON(prepared, norm)
	case KindBinary:
		content, err = encodeBinary(prepared, norm)
	default:
		content, err = encodeDocument(prepared, norm)
	}
	if err != nil {
		return fmt.Errorf("artifact: encode %s: %w", ref.ID, err)
	}
	if err := os.MkdirAll(filepath.Dir(ref.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(ref.Path, content, 0o644)
}

func invalidResult(ref Ref, err error) (CheckResult, error) {
	return CheckResult{Ref: ref, State: StateInvalid, Err: err}, err
}

func decodeDocument(data []byte) (Metadata, Payload, error) {
	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return Metadata{}, nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return Metadata{}, nil, fmt.Errorf("artifact: parse document body: %w", err)
	}
	payload, err := Payload(raw).normalized()
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, payload, nil
}

func encodeDocument(meta Metadata, payload Payload) ([]byte, error) {
	body, err := yaml.Marshal(map[string]any(payload))
	if err != nil {
		return nil, err
	}
	return WriteFrontMatter(meta, body)
}

func decodeJSON(data []byte) (Metadata, Payload, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metadata{}, nil, fmt.Errorf("artifact: parse json: %w", err)
	}
	meta, err := splitMetadata(raw)
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, Payload(raw), nil
}

func encodeJSON(meta Metadata, payload Payload) ([]byte, error) {
	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out[metadataKey] = metadataToMap(meta)
	return json.MarshalIndent(out, "", "  ")
}

func decodeBinary(data []byte) (Metadata, Payload, error) {
	var envelope structpb.Struct
	if err := proto.Unmarshal(data, &envelope); err != nil {
		return Metadata{}, nil, fmt.Errorf("artifact: parse binary envelope: %w", err)
	}
	raw := envelope.AsMap()
	meta, err := splitMetadata(raw)
	if err != nil {
		return Metadata{}, nil, err
	}
	body, ok := raw[payloadKey].(map[string]any)
	if !ok {
		return Metadata{}, nil, fmt.Errorf("artifact: binary envelope has no payload")
	}
	return meta, Payload(body), nil
}

func encodeBinary(meta Metadata, payload Payload) ([]byte, error) {
	envelope, err := structpb.NewStruct(map[string]any{
		metadataKey: metadataToMap(meta),
		payloadKey:  map[string]any(payload),
	})
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(envelope)
}

// splitMetadata removes and parses the metadata block from raw.
func splitMetadata(raw map[string]any) (Metadata, error) {
	block, ok := raw[metadataKey]
	if !ok {
		return Metadata{}, ErrMissingMetadata
	}
	delete(raw, metadataKey)
	values, ok := block.(map[string]any)
	if !ok {
		return Metadata{}, fmt.Errorf("artifact: invalid _segmenter metadata structure")
	}
	return metadataFromMap(values)
}
