package main

import (
	"log"
	"os"
	"syscall"
)

// 向当前进程发送 SIGHUP，用于手工验证日志轮转
func main() {
	err := syscall.Kill(os.Getpid(), syscall.SIGHUP)
	if err != nil {
		log.Fatal("Failed to send SIGHUP:", err)
	}
}
