package lib

import (
	"fmt"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

var socketServer *socket.Server

// GetSocketServer returns the shared socket.io server. The server is
// created by main during router setup; until then emits are dropped.
func GetSocketServer() *socket.Server {
	return socketServer
}

func NewSocketServer(s *socket.Server) {
	socketServer = s
}

func userRoom(userID uint) socket.Room {
	return socket.Room(fmt.Sprintf("user:%d", userID))
}

// SocketNotifyUser emits a notification event to the user's room.
func SocketNotifyUser(userID uint, payload any) {
	wss := GetSocketServer()
	if wss == nil {
		log.Println("[socket] server not initialized, notification not delivered")
		return
	}
	wss.To(userRoom(userID)).Emit("notification", payload)
}

// SocketNotifyAdmins broadcasts to every connected admin observer.
func SocketNotifyAdmins(payload any) {
	wss := GetSocketServer()
	if wss == nil {
		log.Println("[socket] server not initialized, notification not delivered")
		return
	}
	wss.Emit("admin_notification", payload)
}

// RegisterSocketHandlers wires the connection lifecycle: clients join
// their user room with a "join" event carrying the user id.
func RegisterSocketHandlers(wss *socket.Server) {
	wss.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		log.Printf("[socket] client connected: %s\n", string(client.Id()))
		client.On("join", func(args ...any) {
			if len(args) == 0 {
				return
			}
			id, ok := args[0].(float64)
			if !ok {
				log.Printf("[socket] join with non-numeric id from %s\n", string(client.Id()))
				return
			}
			client.Join(userRoom(uint(id)))
		})
		client.On("message", func(args ...any) {
			client.Emit("message-back", args...)
		})
	})
}
