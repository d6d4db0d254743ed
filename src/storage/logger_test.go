package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesLeveledEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("批处理开始")
	logger.Warning("用户类型出现未映射取值")
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	content := string(data)
	if !strings.Contains(content, "INFO: 批处理开始") {
		t.Errorf("日志缺少INFO条目: %s", content)
	}
	if !strings.Contains(content, "WARNING: 用户类型出现未映射取值") {
		t.Errorf("日志缺少WARNING条目: %s", content)
	}
}

func TestLoggerSubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Error("出错了")

	select {
	case msg := <-ch:
		if !strings.Contains(msg, "ERROR: 出错了") {
			t.Errorf("订阅消息不符: %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("没有收到订阅消息")
	}
}

func TestLoggerRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("一条足够长的日志内容，用来超过体积上限")

	// 上限1字节，必然触发轮转
	if err := logger.CheckRotate("1"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	// 轮转后目录里应有存档文件和新的app.log
	if len(entries) < 2 {
		t.Errorf("期望轮转产生存档文件，实际目录内容: %v", entries)
	}

	logger.Info("轮转后还能继续写")
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "轮转后还能继续写") {
		t.Error("轮转后写入失败")
	}
}
