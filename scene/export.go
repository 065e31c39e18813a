package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var cborEnc = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// WriteJSON 将场景图输出为缩进 JSON，便于调试或可视化。
func WriteJSON(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("编码场景 JSON 失败: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteCBOR 将场景图以确定性 CBOR 编码输出，供外部渲染器读取。
func WriteCBOR(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	if err := cborEnc.NewEncoder(w).Encode(n); err != nil {
		return fmt.Errorf("编码场景 CBOR 失败: %w", err)
	}
	return nil
}

// ReadCBOR decodes a scene written by WriteCBOR.
func ReadCBOR(r io.Reader) (*Node, error) {
	var n Node
	if err := cbor.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("解码场景 CBOR 失败: %w", err)
	}
	return &n, nil
}
