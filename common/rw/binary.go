package rw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ReaderWriter reads and writes the little-endian scene dump format.
// Read methods panic on truncated input; callers that expose an error API
// recover at their boundary (see scene.SceneFromBin).
type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
}

func NewSceneBinWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewSceneBinReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	n, err := w.rw.Read(w.dataBuf[:4])
	if err != nil || n != 4 {
		panic(fmt.Errorf("rw: short read: %d of 4 bytes", n))
	}
	return w.order.Uint32(w.dataBuf[:4])
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadInt32s(value []int32) {
	for i := range value {
		value[i] = w.ReadInt32()
	}
}

func (w *ReaderWriter) ReadFloat32() float32 {
	return math.Float32frombits(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32s(value []float32) {
	for i := range value {
		value[i] = w.ReadFloat32()
	}
}

// ReadString reads an int32 length prefix followed by that many bytes.
// The stored length counts a trailing NUL, which is stripped.
func (w *ReaderWriter) ReadString() string {
	num := w.ReadInt32()
	if num <= 0 {
		return ""
	}
	buf := make([]byte, num)
	n, err := w.rw.Read(buf)
	if err != nil || n != int(num) {
		panic(fmt.Errorf("rw: short read: %d of %d bytes", n, num))
	}
	if buf[num-1] == 0 {
		buf = buf[:num-1]
	}
	return string(buf)
}

func (w *ReaderWriter) WriteUInt32(value uint32) {
	w.order.PutUint32(w.dataBuf, value)
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteInt32(value int32) {
	w.WriteUInt32(uint32(value))
}

func (w *ReaderWriter) WriteInt32s(value []int32) {
	for _, v := range value {
		w.WriteInt32(v)
	}
}

func (w *ReaderWriter) WriteFloat32(value float32) {
	w.WriteUInt32(math.Float32bits(value))
}

func (w *ReaderWriter) WriteFloat32s(value []float32) {
	for _, v := range value {
		w.WriteFloat32(v)
	}
}

// WriteString writes an int32 length prefix (including one trailing NUL)
// followed by the string bytes and the NUL.
func (w *ReaderWriter) WriteString(s string) {
	w.WriteInt32(int32(len(s)) + 1)
	w.rw.WriteString(s)
	w.rw.WriteByte(0)
}

func (w *ReaderWriter) Skip(size int) {
	w.rw.Next(size)
}

func (w *ReaderWriter) GetWriteBytes() []byte {
	return w.rw.Bytes()
}

func (w *ReaderWriter) Size() int {
	return w.rw.Len()
}
