package worker

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/utils"
)

func TestPublishProgressWarnsOnRedisFailure(t *testing.T) {
	hook := logtest.NewLocal(utils.GetLogger())
	defer hook.Reset()

	// A client pointed at a closed port makes every write fail fast.
	h := &PersistTaskHandler{
		redis: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		}),
	}

	h.publishProgress(context.Background(), "IMP-test", 5, 10)

	entry := hook.LastEntry()
	require.NotNil(t, entry, "a failed progress write must be logged")
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "IMP-test", entry.Data["session"])
}
