// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engineio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PacketType is the Engine.IO packet type.
type PacketType byte

const (
	Open    PacketType = '0'
	Close   PacketType = '1'
	Ping    PacketType = '2'
	Pong    PacketType = '3'
	Message PacketType = '4'
	Upgrade PacketType = '5'
	Noop    PacketType = '6'
)

// SocketType is the Socket.IO packet type inside a Message.
type SocketType byte

const (
	Connect      SocketType = '0'
	Disconnect   SocketType = '1'
	Event        SocketType = '2'
	Ack          SocketType = '3'
	ConnectError SocketType = '4'
	BinaryEvent  SocketType = '5'
	BinaryAck    SocketType = '6'
)

// DefaultNamespace is the namespace used when none is written.
const DefaultNamespace = "/"

// NoAck marks a packet without an ack id.
const NoAck = -1

var (
	// ErrEmptyFrame is returned for zero-length frames.
	ErrEmptyFrame = errors.New("engineio: empty frame")
	// ErrBinary is returned for packets with binary attachments.
	ErrBinary = errors.New("engineio: binary packets are not supported")
)

// Packet is a decoded frame. Socket fields are only meaningful when Type is
// Message.
type Packet struct {
	Type PacketType

	Socket    SocketType
	Namespace string
	AckID     int

	// Data is the raw payload: JSON for Open/Message, free text for
	// Ping/Pong probes.
	Data []byte
}

// OpenPayload is the handshake carried by the Open packet.
type OpenPayload struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int      `json:"pingInterval"`
	PingTimeout  int      `json:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload"`
}

// Decode parses a text frame.
func Decode(frame []byte) (Packet, error) {
	if len(frame) == 0 {
		return Packet{}, ErrEmptyFrame
	}
	p := Packet{Type: PacketType(frame[0]), AckID: NoAck}
	rest := frame[1:]

	switch p.Type {
	case Open, Close, Ping, Pong, Upgrade, Noop:
		p.Data = rest
		return p, nil
	case Message:
	default:
		return Packet{}, fmt.Errorf("engineio: unknown packet type %q", frame[0])
	}

	if len(rest) == 0 {
		return Packet{}, errors.New("engineio: message without socket packet")
	}
	p.Socket = SocketType(rest[0])
	if p.Socket < Connect || p.Socket > BinaryAck {
		return Packet{}, fmt.Errorf("engineio: unknown socket packet type %q", rest[0])
	}
	if p.Socket == BinaryEvent || p.Socket == BinaryAck {
		return Packet{}, ErrBinary
	}
	body := string(rest[1:])

	p.Namespace = DefaultNamespace
	if strings.HasPrefix(body, "/") {
		end := strings.IndexByte(body, ',')
		if end < 0 {
			p.Namespace = body
			body = ""
		} else {
			p.Namespace = body[:end]
			body = body[end+1:]
		}
	}

	digits := 0
	for digits < len(body) && body[digits] >= '0' && body[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		id, err := strconv.Atoi(body[:digits])
		if err != nil {
			return Packet{}, fmt.Errorf("engineio: bad ack id: %w", err)
		}
		p.AckID = id
		body = body[digits:]
	}

	if body != "" {
		p.Data = []byte(body)
	}
	return p, nil
}

// Encode renders p as a text frame.
func Encode(p Packet) []byte {
	var b strings.Builder
	b.WriteByte(byte(p.Type))
	if p.Type != Message {
		b.Write(p.Data)
		return []byte(b.String())
	}
	b.WriteByte(byte(p.Socket))
	if p.Namespace != "" && p.Namespace != DefaultNamespace {
		b.WriteString(p.Namespace)
		b.WriteByte(',')
	}
	if p.AckID >= 0 {
		b.WriteString(strconv.Itoa(p.AckID))
	}
	b.Write(p.Data)
	return []byte(b.String())
}

// EncodeEvent renders an event on the default namespace.
func EncodeEvent(name string, args ...interface{}) ([]byte, error) {
	data, err := json.Marshal(append([]interface{}{name}, args...))
	if err != nil {
		return nil, fmt.Errorf("engineio: encode %s: %w", name, err)
	}
	return Encode(Packet{Type: Message, Socket: Event, AckID: NoAck, Data: data}), nil
}

// ConnectFrame is the namespace connect request for the default namespace.
func ConnectFrame() []byte {
	return Encode(Packet{Type: Message, Socket: Connect, AckID: NoAck})
}

// EventName splits an Event packet into its name and raw arguments.
func (p Packet) EventName() (name string, args []jsoniter.RawMessage, err error) {
	if p.Type != Message || p.Socket != Event {
		return "", nil, errors.New("engineio: not an event packet")
	}
	var parts []jsoniter.RawMessage
	if err := json.Unmarshal(p.Data, &parts); err != nil {
		return "", nil, fmt.Errorf("engineio: malformed event: %w", err)
	}
	if len(parts) == 0 {
		return "", nil, errors.New("engineio: event without name")
	}
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return "", nil, fmt.Errorf("engineio: event name is not a string: %w", err)
	}
	return name, parts[1:], nil
}

// DecodeOpen reads the handshake from an Open packet.
func (p Packet) DecodeOpen() (OpenPayload, error) {
	var o OpenPayload
	if p.Type != Open {
		return o, errors.New("engineio: not an open packet")
	}
	if err := json.Unmarshal(p.Data, &o); err != nil {
		return o, fmt.Errorf("engineio: malformed open payload: %w", err)
	}
	return o, nil
}

// ConnectErrorMessage extracts the message of a ConnectError packet.
func (p Packet) ConnectErrorMessage() string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(p.Data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return string(p.Data)
}
