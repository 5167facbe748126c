package model

import (
	"fmt"
	"regexp"

	log "github.com/sirupsen/logrus"
)

const (
	ErrorParams          = 200001
	ErrorEmptyQuery      = 200002
	ErrorSessionNotFound = 200003
	ErrorLLM             = 200004
	ErrorRetrieval       = 200005
	ErrorKnowledge       = 200006
	ErrorOrderLookup     = 200007
	ErrorNewRepo         = 200008
	ErrorDB              = 200009
)

var ErrorMessages = map[int]string{
	ErrorParams:          "参数错误",
	ErrorEmptyQuery:      "查询内容不能为空",
	ErrorSessionNotFound: "会话不存在",
	ErrorLLM:             "大模型调用失败",
	ErrorRetrieval:       "知识检索失败",
	ErrorKnowledge:       "知识库操作失败",
	ErrorOrderLookup:     "订单查询失败",
	ErrorNewRepo:         "新建 repo 失败",
	ErrorDB:              "db error",
}

type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	InnerError error  `json:"inner_error"`
}

func (err Error) Error() string {
	return err.Message
}

func (err Error) String() string {
	return err.InnerError.Error()
}

func NewError(code int, innerError error) *Error {
	if innerError != nil {
		var re = regexp.MustCompile(`[\n\t]+`)
		innerErrorString := re.ReplaceAllString(fmt.Sprintf("%+v", innerError), " ")
		log.Errorf("NewError code:%d, message:%s, innerError:%+v\n", code, ErrorMessages[code], innerErrorString)
	}
	return &Error{
		Code:       code,
		Message:    ErrorMessages[code],
		InnerError: nil,
	}
}

func NewErrorWithMessage(code int, message string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		InnerError: nil,
	}
}
