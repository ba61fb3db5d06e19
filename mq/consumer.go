package mq

import (
	"github.com/nsqio/go-nsq"
)

func NewConsumer(topic, ch string) (*nsq.Consumer, error) {
	cfg := nsq.NewConfig()
	return nsq.NewConsumer(topic, ch, cfg)
}
