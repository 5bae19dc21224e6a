package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecode_SubmitSignal 测试信号命令解码
func TestDecode_SubmitSignal(t *testing.T) {
	data := []byte(`{
		"type": "submit_signal",
		"signer": "alice",
		"timestamp": 1700000000000000,
		"payload": {"signal": {"influencer": "kol", "token": "SOL", "confidence": 0.85}}
	}`)

	cmd, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, TypeSubmitSignal, cmd.Type)
	assert.Equal(t, "alice", cmd.Signer)
	assert.Equal(t, uint64(1700000000000000), cmd.Timestamp)

	payload, ok := cmd.Payload.(*SubmitSignal)
	require.True(t, ok)
	assert.Equal(t, "SOL", payload.Signal.Token)
	assert.Equal(t, 0.85, payload.Signal.Confidence)
}

// TestDecode_UnknownType 测试未知类型不报错，载荷为空
func TestDecode_UnknownType(t *testing.T) {
	cmd, err := Decode([]byte(`{"type": "teleport_funds", "timestamp": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "teleport_funds", cmd.Type)
	assert.Nil(t, cmd.Payload)
}

// TestDecode_InvalidJSON 测试非法 JSON 报错
func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"type": `))
	assert.Error(t, err)
}

// TestDecode_MissingPayload 测试缺省载荷按零值解析
func TestDecode_MissingPayload(t *testing.T) {
	cmd, err := Decode([]byte(`{"type": "check_conditional_orders", "timestamp": 5}`))
	require.NoError(t, err)

	_, ok := cmd.Payload.(*CheckConditionalOrders)
	assert.True(t, ok)
}

// TestDecode_BadPayloadShape 测试载荷与类型不匹配时报错
func TestDecode_BadPayloadShape(t *testing.T) {
	_, err := Decode([]byte(`{"type": "record_order_fill", "timestamp": 1, "payload": {"order_id": "not-a-number"}}`))
	assert.Error(t, err)
}

// TestEncodeDecode_RoundTrip 测试信封编解码往返
func TestEncodeDecode_RoundTrip(t *testing.T) {
	cmd := &Command{
		Type:      TypeRecordMarketObservation,
		Signer:    "node-1",
		Timestamp: 42,
		Payload:   &RecordMarketObservation{Token: "SOL", Kind: "price", Value: 150.5},
	}

	data, err := cmd.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, cmd.Type, decoded.Type)
	assert.Equal(t, cmd.Signer, decoded.Signer)
	assert.Equal(t, cmd.Timestamp, decoded.Timestamp)

	payload := decoded.Payload.(*RecordMarketObservation)
	assert.Equal(t, 150.5, payload.Value)
}
