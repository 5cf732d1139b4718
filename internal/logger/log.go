package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sizeLimit = 240 * 1024 // CloudWatch log size limit
	// request log type
	requestType = "webhook_request"
)

// logRecord for Request Log
type logRecord struct {
	RequestID      string // AwsRequestID, use as TraceID
	Timestamp      int64
	Duration       int64
	HTTPStatusCode int
	HTTPMethod     string
	RequestPath    string
	RequestBody    string
	ResponseBody   string
	Type           string `json:"type"` // keyword to identify the log as request log
}

func (record *logRecord) String() string {
	buf := bytes.NewBufferString("")
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	e := encoder.Encode(record)
	if e != nil {
		GetLogger().Error("failed to encode log record", zap.Error(e))
		return "{}"
	}
	return buf.String()
}

// GinLogMiddleware emits one request log line per webhook invocation
func GinLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// overwrite the gin.Context.Writer to log response body
		respLogWriter := &respLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = respLogWriter

		record := initLogRecord(c)

		if lc, ok := lambdacontext.FromContext(c.Request.Context()); ok {
			record.RequestID = lc.AwsRequestID
		}

		defer func() {
			record.HTTPStatusCode = c.Writer.Status()
			record.Duration = time.Now().UnixNano()/1e6 - record.Timestamp
			record.ResponseBody = respLogWriter.body.String()
			fmt.Println(logTruncate(record))
		}()

		c.Next()
	}
}

func logTruncate(record *logRecord) (logStr string) {
	logStr = record.String()
	if len(logStr) < sizeLimit {
		return logStr
	}
	reqSize := len(record.RequestBody)
	// truncate request body or response body if the total size is over the limit
	if len(logStr) > sizeLimit {
		record.ResponseBody = "TRUNCATED..."
	}
	if len(logStr)-reqSize > sizeLimit {
		record.RequestBody = "TRUNCATED..."
	}
	return record.String()
}

type respLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w respLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w respLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func initLogRecord(c *gin.Context) *logRecord {
	requestBodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		requestBodyBytes = nil
	}
	// reattach request body for later use
	c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))

	return &logRecord{
		Timestamp:   time.Now().UnixNano() / 1e6,
		HTTPMethod:  c.Request.Method,
		RequestPath: c.Request.RequestURI,
		RequestBody: string(requestBodyBytes),
		Type:        requestType,
	}
}
