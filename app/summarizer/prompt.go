package summarizer

import (
	"fmt"
	"strings"
)

const (
	defaultEndpoint = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	defaultModel    = "glm-4-plus"

	systemPrompt = "你是一个中文资深科技记者，擅长从访谈中提炼洞察。"
)

const userPromptTemplate = `访谈标题：%s
原文链接：%s

原文内容：
%s

请完成以下任务：
1. 精炼总结访谈核心观点，包含3-5条关键洞察，每条带一句原文或事实依据。
2. 概括受访者对行业趋势或产品策略的判断。
3. 给出对读者的行动启发或思考题，2-3点。
输出格式：Markdown，结构包括：
- 标题（H1）
- 原文信息（列表，含来源与链接）
- 核心观点（编号列表）
- 行业/策略判断（小节）
- 行动启发（小节，项目符号）`

// BuildPrompt renders the fixed user prompt for a stored item.
func BuildPrompt(title, url, content string) string {
	return strings.TrimSpace(fmt.Sprintf(userPromptTemplate, title, url, content))
}
