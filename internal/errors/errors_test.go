package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	// 测试基本错误创建
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	// 测试带详情的错误
	err = New(ErrInvalidTransition, "状态=idle, 事件=report")
	suite.NotNil(err)
	suite.Equal(ErrInvalidTransition, err.Code)
	suite.Equal("无效的状态转换", err.Message)
	suite.Equal("状态=idle, 事件=report", err.Details)

	// 测试多个详情
	err = New(ErrSerialPortOpen, "打开失败", "端口: /dev/ttyS1", "波特率: 115200")
	suite.Equal("打开失败; 端口: /dev/ttyS1; 波特率: 115200", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrInvalidDifficulty, "难度 %d 超出 0..%d", 120, 100)
	suite.NotNil(err)
	suite.Equal(ErrInvalidDifficulty, err.Code)
	suite.Equal("难度 120 超出 0..100", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	// 包装标准错误
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrDatabaseQuery)
	suite.NotNil(wrappedErr)
	suite.Equal(ErrDatabaseQuery, wrappedErr.Code)
	suite.Equal("原始错误", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)

	// 包装nil错误
	nilErr := Wrap(nil, ErrUnknown)
	suite.Nil(nilErr)
}

// 测试格式化错误包装
func (suite *ErrorsTestSuite) TestWrapf() {
	originalErr := errors.New("写入失败")
	err := Wrapf(originalErr, ErrReportFailed, "回合 %d 上报失败", 3)
	suite.NotNil(err)
	suite.Equal(ErrReportFailed, err.Code)
	suite.Equal("回合 3 上报失败", err.Details)
	suite.Equal(originalErr, err.Cause)
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrSessionNotStarted)
	suite.True(Is(err, ErrSessionNotStarted))
	suite.False(Is(err, ErrSessionAlreadyStarted))
	suite.False(Is(nil, ErrSessionNotStarted))

	// 包装已有的AppError保留原始错误码
	wrapped := Wrap(err, ErrUnknown)
	suite.True(Is(wrapped, ErrSessionNotStarted))
}

// 测试获取错误码
func (suite *ErrorsTestSuite) TestGetCode() {
	suite.Equal(ErrInvalidFrame, GetCode(New(ErrInvalidFrame)))
	suite.Equal(ErrUnknown, GetCode(errors.New("普通错误")))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

// 测试错误展开
func (suite *ErrorsTestSuite) TestUnwrap() {
	originalErr := errors.New("底层错误")
	wrapped := Wrap(originalErr, ErrSerialPortWrite)
	suite.Equal(originalErr, errors.Unwrap(wrapped))
	suite.True(errors.Is(wrapped, originalErr))
}

// 测试错误字符串格式
func (suite *ErrorsTestSuite) TestErrorString() {
	err := New(ErrTimeout)
	suite.Equal("[1005] 操作超时", err.Error())

	err = New(ErrTimeout, "视觉窗口")
	suite.Equal("[1005] 操作超时: 视觉窗口", err.Error())
}

// 测试可重试判断
func (suite *ErrorsTestSuite) TestIsRetryable() {
	suite.True(IsRetryable(New(ErrSerialTimeout)))
	suite.True(IsRetryable(New(ErrDeviceBusy)))
	suite.False(IsRetryable(New(ErrInvalidFrame)))
	suite.False(IsRetryable(nil))
}

// 测试严重错误判断
func (suite *ErrorsTestSuite) TestIsCritical() {
	suite.True(IsCritical(New(ErrSerialPortOpen)))
	suite.True(IsCritical(New(ErrConfigLoad)))
	suite.False(IsCritical(New(ErrInvalidDifficulty)))
	suite.False(IsCritical(nil))
}

// 测试WithDetails与WithCause
func (suite *ErrorsTestSuite) TestWith() {
	cause := errors.New("根因")
	err := New(ErrReportFailed).WithDetails("第3回合").WithCause(cause)
	suite.Equal("第3回合", err.Details)
	suite.Equal(cause, err.Cause)
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
