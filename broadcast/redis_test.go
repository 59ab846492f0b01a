package broadcast

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"sensor-analytics-api/models"

	"github.com/stretchr/testify/require"
)

// fakeRedis answers PING and PUBLISH over RESP and reports every published
// payload on the returned channel.
func fakeRedis(t *testing.T) (string, <-chan []string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	published := make(chan []string, 16)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveRESP(conn, published)
		}
	}()

	return ln.Addr().String(), published
}

func serveRESP(conn net.Conn, published chan<- []string) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		switch strings.ToUpper(args[0]) {
		case "PING":
			fmt.Fprint(conn, "+PONG\r\n")
		case "PUBLISH":
			published <- args[1:]
			fmt.Fprint(conn, ":1\r\n")
		default:
			fmt.Fprint(conn, "+OK\r\n")
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "*")))
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(header, "$")))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func TestRedisPublisherPublish(t *testing.T) {
	addr, published := fakeRedis(t)

	pub, err := NewRedisPublisher(context.Background(), addr, "", "", time.Second)
	require.NoError(t, err)
	defer pub.Close()
	require.Equal(t, DefaultChannel, pub.Channel())

	summary := models.SnapshotSummary{
		TotalRecords:     3,
		AverageTemp:      22.0,
		MaxTemp:          24.0,
		MinTemp:          20.0,
		AverageHumidity:  55.0,
		RecordsPerSensor: map[string]int{models.SensorAlpha: 2, models.SensorBeta: 1},
		GeneratedAt:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(context.Background(), summary))

	select {
	case args := <-published:
		require.Len(t, args, 2)
		require.Equal(t, DefaultChannel, args[0])

		var got models.SnapshotSummary
		require.NoError(t, json.Unmarshal([]byte(args[1]), &got))
		require.Equal(t, summary, got)
	case <-time.After(2 * time.Second):
		t.Fatal("nothing published")
	}
}

func TestRedisPublisherCustomChannel(t *testing.T) {
	addr, published := fakeRedis(t)

	pub, err := NewRedisPublisher(context.Background(), addr, "", "dashboards", 0)
	require.NoError(t, err)
	defer pub.Close()

	require.NoError(t, pub.Publish(context.Background(), models.SnapshotSummary{TotalRecords: 1}))
	select {
	case args := <-published:
		require.Equal(t, "dashboards", args[0])
	case <-time.After(2 * time.Second):
		t.Fatal("nothing published")
	}
}

func TestNewRedisPublisherUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewRedisPublisher(context.Background(), addr, "", "", time.Second)
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), models.SnapshotSummary{}))
	require.NoError(t, p.Close())
}
