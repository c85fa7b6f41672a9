package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted in the badger index.
// Composed by hand from mus-go primitives; the layout is part of the
// on-disk format and must not change between releases.

var (
	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
	extraMUS  = ord.NewMapSer[string, string](ord.String, ord.String)
)

// timestamps are stored as unix microseconds
func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(usec int64) time.Time {
	if usec == 0 {
		return time.Time{}
	}
	return time.UnixMicro(usec).UTC()
}

// PayloadMUS serializes Payload values.
var PayloadMUS = payloadMUS{}

type payloadMUS struct{}

func (s payloadMUS) Marshal(v Payload, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	n += ord.String.Marshal(v.Filename, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.UploadDate), bs[n:])
	n += extraMUS.Marshal(v.Extra, bs[n:])
	return
}

func (s payloadMUS) Unmarshal(bs []byte) (v Payload, n int, err error) {
	var n1 int
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Filename, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UploadDate = microToTime(usec)
	v.Extra, n1, err = extraMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s payloadMUS) Size(v Payload) (size int) {
	size = ord.String.Size(v.Text)
	size += ord.String.Size(v.Filename)
	size += varint.Int64.Size(timeToMicro(v.UploadDate))
	size += extraMUS.Size(v.Extra)
	return
}

func (s payloadMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = extraMUS.Skip(bs[n:])
	n += n1
	return
}

// PointMUS serializes StoredPoint values.
var PointMUS = pointMUS{}

type pointMUS struct{}

func (s pointMUS) Marshal(v StoredPoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID.String(), bs)
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += PayloadMUS.Marshal(v.Payload, bs[n:])
	return
}

func (s pointMUS) Unmarshal(bs []byte) (v StoredPoint, n int, err error) {
	var n1 int
	var id string
	id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ID, err = uuid.Parse(id)
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Payload, n1, err = PayloadMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s pointMUS) Size(v StoredPoint) (size int) {
	size = ord.String.Size(v.ID.String())
	size += vectorMUS.Size(v.Vector)
	size += PayloadMUS.Size(v.Payload)
	return
}

func (s pointMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = PayloadMUS.Skip(bs[n:])
	n += n1
	return
}

// CollectionMetaMUS serializes CollectionMeta values.
var CollectionMetaMUS = collectionMetaMUS{}

type collectionMetaMUS struct{}

func (s collectionMetaMUS) Marshal(v CollectionMeta, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Dimension, bs)
	n += ord.String.Marshal(v.Metric, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.CreatedAt), bs[n:])
	return
}

func (s collectionMetaMUS) Unmarshal(bs []byte) (v CollectionMeta, n int, err error) {
	var n1 int
	v.Dimension, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Metric, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var usec int64
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	v.CreatedAt = microToTime(usec)
	return
}

func (s collectionMetaMUS) Size(v CollectionMeta) (size int) {
	size = varint.Int.Size(v.Dimension)
	size += ord.String.Size(v.Metric)
	size += varint.Int64.Size(timeToMicro(v.CreatedAt))
	return
}

func (s collectionMetaMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
