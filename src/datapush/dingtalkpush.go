package datapush

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RideInsight/src/processor"
)

/******************** 钉钉推送 ********************/

// Notifier 通过钉钉群机器人webhook推送批处理结果
type Notifier struct {
	webhook string
	secret  string
	client  *http.Client
}

func NewNotifier(webhook, secret string) *Notifier {
	return &Notifier{
		webhook: webhook,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// dingResponse 钉钉开放平台的统一应答格式
type dingResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// PushBatchSummary 推送一条批处理完成的markdown通知
// 推送失败不影响批处理结果，由调用方决定是否只记日志
func (n *Notifier) PushBatchSummary(result *processor.Result, summaryPath string, elapsed time.Duration) error {
	text := buildMarkdown(result, summaryPath, elapsed)

	payload := map[string]interface{}{
		"msgtype": "markdown",
		"markdown": map[string]string{
			"title": "骑行数据批处理完成",
			"text":  text,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化推送内容失败: %w", err)
	}

	target, err := n.signedURL()
	if err != nil {
		return err
	}

	resp, err := n.client.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("请求钉钉webhook失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("钉钉webhook返回状态码 %d", resp.StatusCode)
	}

	var dr dingResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("解析钉钉应答失败: %w", err)
	}
	if dr.ErrCode != 0 {
		return fmt.Errorf("钉钉推送被拒绝: errcode=%d errmsg=%s", dr.ErrCode, dr.ErrMsg)
	}
	return nil
}

// signedURL 按加签机制在webhook上追加timestamp和sign参数
// 未配置secret时机器人走关键词校验，直接返回原始webhook
func (n *Notifier) signedURL() (string, error) {
	if n.secret == "" {
		return n.webhook, nil
	}

	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	mac := hmac.New(sha256.New, []byte(n.secret))
	mac.Write([]byte(ts + "\n" + n.secret))
	sign := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	u, err := url.Parse(n.webhook)
	if err != nil {
		return "", fmt.Errorf("webhook地址非法: %w", err)
	}
	q := u.Query()
	q.Set("timestamp", ts)
	q.Set("sign", sign)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// buildMarkdown 把批处理结果折算成通知正文
func buildMarkdown(result *processor.Result, summaryPath string, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString("### 骑行数据批处理完成\n\n")
	fmt.Fprintf(&b, "- 清洗后行数: **%d**\n", len(result.Cleaned))
	fmt.Fprintf(&b, "- 缺站点剔除: %d\n", result.FilterStats.DroppedMissingStation)
	fmt.Fprintf(&b, "- 时长越界剔除: %d\n", result.FilterStats.DroppedBadDuration)
	for _, stat := range result.ByRiderType {
		fmt.Fprintf(&b, "- %s: %d次, 均值%.1f分钟, 中位数%.1f分钟\n",
			stat.MemberCasual, stat.Count, stat.MeanMinutes, stat.MedianMinutes)
	}
	fmt.Fprintf(&b, "- 报表: %s\n", summaryPath)
	fmt.Fprintf(&b, "- 耗时: %v\n", elapsed.Round(time.Millisecond))
	return b.String()
}
