package handler

import (
	"unicode/utf8"

	"github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/net/protocol"
	"go.uber.org/zap"
	"golang.org/x/text/secure/precis"
)

const maxNameRunes = 24

// HandleHello names the session and moves it to the lobby.
func HandleHello(sess *net.Session, env protocol.Envelope, deps *Deps) {
	msg, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		sess.SendError(protocol.ErrBadMessage, err.Error())
		return
	}
	name, err := normalizeName(msg.Name)
	if err != nil {
		sess.SendError(protocol.ErrBadName, "name must be 1-24 printable characters")
		return
	}

	sess.Name = name
	sess.SetState(packet.StateLobby)
	deps.Log.Info("player named", zap.Uint64("session", sess.ID), zap.String("name", name))

	sess.SendMsg(protocol.TypeWelcome, protocol.Welcome{
		Session: sess.ID,
		Name:    name,
		Arenas:  deps.Arenas.Names(),
	})
}

// normalizeName applies the PRECIS nickname profile: width folding, space
// trimming and rejection of control characters.
func normalizeName(raw string) (string, error) {
	name, err := precis.Nickname.String(raw)
	if err != nil {
		return "", err
	}
	if name == "" || utf8.RuneCountInString(name) > maxNameRunes {
		return "", errBadName
	}
	return name, nil
}
