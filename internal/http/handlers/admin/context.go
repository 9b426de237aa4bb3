package admin

import (
	handlershared "github.com/dujiao-next/cupcake/internal/http/handlers/shared"
	"github.com/dujiao-next/cupcake/internal/session"

	"github.com/gin-gonic/gin"
)

func currentIdentity(c *gin.Context) session.Identity {
	return handlershared.CurrentIdentity(c)
}
