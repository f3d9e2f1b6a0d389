// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engineio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_EngineTypes(t *testing.T) {
	p, err := Decode([]byte("2"))
	require.NoError(t, err)
	assert.Equal(t, Ping, p.Type)

	p, err = Decode([]byte("3probe"))
	require.NoError(t, err)
	assert.Equal(t, Pong, p.Type)
	assert.Equal(t, "probe", string(p.Data))

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, err = Decode([]byte("9"))
	assert.Error(t, err)
}

func TestDecode_Open(t *testing.T) {
	p, err := Decode([]byte(`0{"sid":"abc","upgrades":[],"pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`))
	require.NoError(t, err)
	open, err := p.DecodeOpen()
	require.NoError(t, err)
	assert.Equal(t, "abc", open.SID)
	assert.Equal(t, 25000, open.PingInterval)
	assert.Equal(t, 20000, open.PingTimeout)
}

func TestDecode_Event(t *testing.T) {
	p, err := Decode([]byte(`42["messageRecieved",{"text":"hi"}]`))
	require.NoError(t, err)
	assert.Equal(t, Message, p.Type)
	assert.Equal(t, Event, p.Socket)
	assert.Equal(t, DefaultNamespace, p.Namespace)
	assert.Equal(t, NoAck, p.AckID)

	name, args, err := p.EventName()
	require.NoError(t, err)
	assert.Equal(t, "messageRecieved", name)
	require.Len(t, args, 1)
	assert.JSONEq(t, `{"text":"hi"}`, string(args[0]))
}

func TestDecode_NamespaceAndAck(t *testing.T) {
	p, err := Decode([]byte(`42/chat,17["x"]`))
	require.NoError(t, err)
	assert.Equal(t, "/chat", p.Namespace)
	assert.Equal(t, 17, p.AckID)
	assert.Equal(t, `["x"]`, string(p.Data))

	p, err = Decode([]byte(`40/admin`))
	require.NoError(t, err)
	assert.Equal(t, Connect, p.Socket)
	assert.Equal(t, "/admin", p.Namespace)
	assert.Nil(t, p.Data)
}

func TestDecode_ConnectAndError(t *testing.T) {
	p, err := Decode([]byte(`40{"sid":"xyz"}`))
	require.NoError(t, err)
	assert.Equal(t, Connect, p.Socket)
	assert.JSONEq(t, `{"sid":"xyz"}`, string(p.Data))

	p, err = Decode([]byte(`44{"message":"Not authorized"}`))
	require.NoError(t, err)
	assert.Equal(t, ConnectError, p.Socket)
	assert.Equal(t, "Not authorized", p.ConnectErrorMessage())
}

func TestDecode_BinaryRejected(t *testing.T) {
	_, err := Decode([]byte(`451-["upload",{"_placeholder":true,"num":0}]`))
	assert.ErrorIs(t, err, ErrBinary)
}

func TestEncodeEvent(t *testing.T) {
	frame, err := EncodeEvent("joinChat", map[string]string{"userId": "u1"})
	require.NoError(t, err)
	assert.Equal(t, `42["joinChat",{"userId":"u1"}]`, string(frame))

	p, err := Decode(frame)
	require.NoError(t, err)
	name, args, err := p.EventName()
	require.NoError(t, err)
	assert.Equal(t, "joinChat", name)
	assert.Len(t, args, 1)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "40", string(ConnectFrame()))
	assert.Equal(t, "3", string(Encode(Packet{Type: Pong})))
	assert.Equal(t, "41", string(Encode(Packet{Type: Message, Socket: Disconnect, AckID: NoAck})))
	assert.Equal(t, `43/chat,5[]`, string(Encode(Packet{Type: Message, Socket: Ack, Namespace: "/chat", AckID: 5, Data: []byte("[]")})))
}

func TestEventName_Malformed(t *testing.T) {
	for _, frame := range []string{`42{}`, `42[]`, `42[1]`} {
		p, err := Decode([]byte(frame))
		require.NoError(t, err, frame)
		_, _, err = p.EventName()
		assert.Error(t, err, frame)
	}

	p, _ := Decode([]byte("2"))
	_, _, err := p.EventName()
	assert.Error(t, err)
}
