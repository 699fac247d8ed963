package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitCSV(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitCSV(""))
}

func TestNewProducerRequiresTopic(t *testing.T) {
	_, err := NewProducer("localhost:9092", "")
	assert.ErrorIs(t, err, ErrTopicRequired)
}
