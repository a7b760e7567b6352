package contextkeys

import "context"

type messageTypeKey struct{}
type callbackDataKey struct{}
type photoFileKey struct{}

type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypePhoto       MessageType = "photo"
	MessageTypeCommand     MessageType = "command"
	MessageTypeClickButton MessageType = "clickButton"
	MessageTypeUnknown     MessageType = "unknown"
)

// PhotoInfo describes the largest size of a photo message.
type PhotoInfo struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

func WithMessageType(ctx context.Context, msgType MessageType) context.Context {
	return context.WithValue(ctx, messageTypeKey{}, msgType)
}

func GetMessageType(ctx context.Context) (MessageType, bool) {
	v := ctx.Value(messageTypeKey{})
	if v == nil {
		return MessageTypeUnknown, false
	}
	return v.(MessageType), true
}

func WithCallbackData(ctx context.Context, data string) context.Context {
	return context.WithValue(ctx, callbackDataKey{}, data)
}

func GetCallbackData(ctx context.Context) (string, bool) {
	v := ctx.Value(callbackDataKey{})
	if v == nil {
		return "", false
	}
	return v.(string), true
}

func WithPhotoInfo(ctx context.Context, info *PhotoInfo) context.Context {
	return context.WithValue(ctx, photoFileKey{}, info)
}

func GetPhotoInfo(ctx context.Context) (*PhotoInfo, bool) {
	v := ctx.Value(photoFileKey{})
	if v == nil {
		return nil, false
	}
	return v.(*PhotoInfo), true
}
