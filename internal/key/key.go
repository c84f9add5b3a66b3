// Package key implements hierarchical entity keys and their websafe string
// form.
//
// A key names one entity by kind and either a numeric id or a string name,
// optionally under a parent key. Conferences live under their organizer's
// Profile and Sessions under their Conference, so a Session key carries the
// whole Profile/Conference/Session path.
//
// The websafe form is the CBOR encoding of that path, root first, wrapped
// in unpadded base64url. It is opaque to clients and safe in URLs.
package key

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Kind names an entity type.
type Kind string

const (
	KindProfile    Kind = "Profile"
	KindConference Kind = "Conference"
	KindSession    Kind = "Session"
	KindSpeaker    Kind = "Speaker"
)

// parentKinds lists the kind each kind must be parented under. Root kinds
// map to the empty Kind.
var parentKinds = map[Kind]Kind{
	KindProfile:    "",
	KindConference: KindProfile,
	KindSession:    KindConference,
	KindSpeaker:    "",
}

// ErrInvalidKey is returned by Decode for anything that is not a well
// formed websafe key.
var ErrInvalidKey = errors.New("invalid websafe key")

// Key identifies one entity. Keys are immutable.
type Key struct {
	kind   Kind
	id     int64
	name   string
	parent *Key
}

// New returns a key with a numeric id.
func New(kind Kind, id int64, parent *Key) *Key {
	return &Key{kind: kind, id: id, parent: parent}
}

// NewNamed returns a key identified by a string name.
func NewNamed(kind Kind, name string, parent *Key) *Key {
	return &Key{kind: kind, name: name, parent: parent}
}

func (k *Key) Kind() Kind       { return k.kind }
func (k *Key) ID() int64        { return k.id }
func (k *Key) Name() string     { return k.name }
func (k *Key) Parent() *Key     { return k.parent }
func (k *Key) Incomplete() bool { return k.id == 0 && k.name == "" }

// Equal reports whether both keys name the same entity along the same path.
func (k *Key) Equal(o *Key) bool {
	for k != nil && o != nil {
		if k.kind != o.kind || k.id != o.id || k.name != o.name {
			return false
		}
		k, o = k.parent, o.parent
	}
	return k == nil && o == nil
}

// String renders the path for logs, e.g. Profile,"u_1"/Conference,42.
func (k *Key) String() string {
	var b strings.Builder
	for i, e := range k.path() {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(e.Kind)
		b.WriteByte(',')
		if e.Name != "" {
			b.WriteString(strconv.Quote(e.Name))
		} else {
			b.WriteString(strconv.FormatInt(e.ID, 10))
		}
	}
	return b.String()
}

type element struct {
	_    struct{} `cbor:",toarray"`
	Kind string
	ID   int64
	Name string
}

func (k *Key) path() []element {
	var depth int
	for p := k; p != nil; p = p.parent {
		depth++
	}
	path := make([]element, depth)
	for p := k; p != nil; p = p.parent {
		depth--
		path[depth] = element{Kind: string(p.kind), ID: p.id, Name: p.name}
	}
	return path
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("key: create CBOR encoder: %v", err))
	}
	decMode, err = cbor.DecOptions{
		MaxNestedLevels:  4,
		MaxArrayElements: 16,
		IntDec:           cbor.IntDecConvertSignedOrFail,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("key: create CBOR decoder: %v", err))
	}
}

// Encode returns the websafe form of k.
func (k *Key) Encode() string {
	b, err := encMode.Marshal(k.path())
	if err != nil {
		// Only fixed-shape strings and integers are encoded.
		panic(fmt.Sprintf("key: encode %s: %v", k, err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a websafe key. Kinds, ids and parent relations are
// validated, so a decoded key always names a possible entity.
func Decode(s string) (*Key, error) {
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, ErrInvalidKey
	}

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	var path []element
	if err := decMode.Unmarshal(b, &path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(path) == 0 {
		return nil, ErrInvalidKey
	}

	var k *Key
	for _, e := range path {
		kind := Kind(e.Kind)
		want, known := parentKinds[kind]
		if !known {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, e.Kind)
		}

		var got Kind
		if k != nil {
			got = k.kind
		}
		if got != want {
			return nil, fmt.Errorf("%w: %s cannot be parented by %q", ErrInvalidKey, kind, got)
		}

		if (e.ID == 0) == (e.Name == "") || e.ID < 0 {
			return nil, fmt.Errorf("%w: %s needs exactly one of id or name", ErrInvalidKey, kind)
		}

		k = &Key{kind: kind, id: e.ID, name: e.Name, parent: k}
	}
	return k, nil
}

// DecodeKind decodes s and checks that it names an entity of kind.
func DecodeKind(s string, kind Kind) (*Key, error) {
	k, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if k.kind != kind {
		return nil, fmt.Errorf("%w: expected %s key, got %s", ErrInvalidKey, kind, k.kind)
	}
	return k, nil
}
