package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
)

// PostImportSleep accepts a multipart "file" field and runs it through the
// import pipeline. The response is the pipeline's own result shape, returned
// with 200 even when success is false so clients read one contract.
func PostImportSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Missing file upload")
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to open upload")
			return
		}
		defer src.Close()

		app.Logger().Infof("importing %s (%d bytes) for user %s", fileHeader.Filename, fileHeader.Size, user.ID)

		hub := app.Progress()
		result := app.Importer().HandleFileUpload(
			c.Request.Context(), user.ID, fileHeader.Filename, src, fileHeader.Size,
			func(percent int) { hub.Publish(user.ID, percent) },
		)

		HandleSuccess(c, app.Logger(), result, nil)
	}
}
