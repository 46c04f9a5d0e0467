package level

// Texture is an opaque texture asset. Its id is the position in
// Container.Textures.
type Texture struct {
	Name   string
	Width  uint16
	Height uint16
	// Engine side pointer tag, meaningful only for equality checks.
	EnginePtr uint32
	Data      []byte
}

func (t *Texture) Clone() *Texture {
	res := *t
	res.Data = append([]byte(nil), t.Data...)
	return &res
}

// Equivalent reports whether two assets can be shared by one texture slot.
// Payload contents are not compared, only its length.
func (t *Texture) Equivalent(o *Texture) bool {
	return t.Width == o.Width &&
		t.Height == o.Height &&
		t.EnginePtr == o.EnginePtr &&
		len(t.Data) == len(o.Data)
}
