package codec

import (
	"testing"

	"github.com/hupe1980/btreego/model"
)

type benchItem struct {
	Key   model.Key    `json:"k"`
	Value model.Record `json:"v"`
}

type benchSnapshot struct {
	Table string      `json:"table"`
	Order int         `json:"order"`
	Items []benchItem `json:"items"`
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func benchSnapshotPayload() benchSnapshot {
	snap := benchSnapshot{Table: "customers", Order: 4}
	for i := range 64 {
		snap.Items = append(snap.Items, benchItem{
			Key: model.IntKey(int64(i * 3)),
			Value: model.Record{
				"name":   "customer",
				"tier":   "gold",
				"credit": 1234.5,
				"tags":   []string{"a", "b", "c"},
				"active": i%2 == 0,
			},
		})
	}
	return snap
}

func BenchmarkCodec_Marshal_Snapshot(b *testing.B) {
	snap := benchSnapshotPayload()

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, snap) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, snap) })
}

func BenchmarkCodec_Unmarshal_Snapshot(b *testing.B) {
	jsonData := MustMarshal(JSON{}, benchSnapshotPayload())

	b.Run("stdlib", func(b *testing.B) {
		var sink benchSnapshot
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchSnapshot
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
