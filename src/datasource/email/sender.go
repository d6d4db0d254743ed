// sender.go
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"

	"RideInsight/src/config"
)

// SendSummaryWorkbook 把生成的汇总工作簿作为附件外发
// 失败只返回错误，不中止批处理(报表外发在致命路径之外)
func SendSummaryWorkbook(c *config.Config, attachmentPath string) error {
	from := c.SendEmail.Username
	password := c.SendEmail.Password

	e := email.NewEmail()
	e.From = fmt.Sprintf("RideInsight <%s>", from)
	e.To = []string{c.SendEmail.Recipient}
	e.Subject = "骑行数据汇总报表"
	e.Text = []byte("本期骑行数据批处理已完成，汇总报表见附件。")

	// 添加附件
	if _, err := os.Stat(attachmentPath); err != nil {
		return fmt.Errorf("报表文件不存在: %s", attachmentPath)
	}
	if _, err := e.AttachFile(attachmentPath); err != nil {
		return fmt.Errorf("附件添加失败: %w", err)
	}

	// 确保服务器地址包含端口
	smtpAddr := c.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465" // 默认 SSL 端口
	}
	host := strings.Split(smtpAddr, ":")[0]

	// 发送邮件（显式 TLS）
	if err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, password, host),
		&tls.Config{ServerName: host},
	); err != nil {
		return fmt.Errorf("邮件发送失败: %w (Server: %s)", err, smtpAddr)
	}
	return nil
}
