package handlers

import (
	"log"
	"net/http"

	"pulse/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSNotifyHandler - WebSocket endpoint для push-уведомлений
func WSNotifyHandler(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	services.GlobalWSConnManager.Add(uid, conn)
	defer services.GlobalWSConnManager.Remove(uid, conn)

	// Тестовое приветствие
	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"connected","message":"WebSocket connected"}`))

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			log.Println("WebSocket read error:", err)
			break
		}
		// Клиент ничего не шлет, держим соединение открытым для push
	}
}
