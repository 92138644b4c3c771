package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"writers-api/internal/validation"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// readInput binds a JSON object or form body into loosely typed fields so
// validation can tell missing, non-string and short values apart. An empty
// body yields empty input.
func readInput(c *gin.Context) (validation.Input, error) {
	in := validation.Input{}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return in, nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		form := map[string]string{}
		if err := c.ShouldBindWith(&form, binding.Form); err != nil {
			return nil, errInvalidBody
		}
		for key, value := range form {
			in[key] = value
		}
		return in, nil
	}

	if err := c.ShouldBindJSON(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Input{}, nil
		}
		return nil, errInvalidBody
	}
	if in == nil {
		in = validation.Input{}
	}
	return in, nil
}

func stringField(in validation.Input, key string) string {
	s, _ := in[key].(string)
	return s
}
