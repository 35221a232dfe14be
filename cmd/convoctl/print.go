package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/convo/internal/rpc"
)

func printDefault(v any) {
	switch r := v.(type) {
	case *rpc.TotalUnreadResponse:
		fmt.Println(r.TotalUnread)
	case *rpc.DispatchResponse:
		fmt.Printf("ok (tag: %s)\n", r.SelectedTag)
	case *rpc.ActionsResponse:
		for _, a := range r.Actions {
			fmt.Println(a.Label)
		}
	case *rpc.DeliverResponse:
		printMessage(&rpc.SendMessageResponse{Message: r.Message})
	default:
		fmt.Println("ok")
	}
}

func printList(v any) {
	r := v.(*rpc.ListConversationsResponse)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	section := func(title string, cs []*rpc.Conversation) {
		if len(cs) == 0 {
			return
		}
		_, _ = fmt.Fprintf(w, "%s\n", title)
		for _, c := range cs {
			unread := ""
			if c.UnreadCount > 0 {
				unread = fmt.Sprintf("(%d)", c.UnreadCount)
			}
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				c.ID, c.DisplayName, unread, ago(c.LastUpdatedUnixMs), c.Preview)
		}
	}
	section("Pinned", r.Pinned)
	section("Chats", r.Others)
	_ = w.Flush()
	fmt.Printf("\ntag: %s  unread: %d\n", r.Tag, r.TotalUnread)
}

func printConversation(v any) {
	c := v.(*rpc.ConversationResponse).Conversation
	pinned := ""
	if c.Pinned {
		pinned = " [pinned]"
	}
	fmt.Printf("%s %s%s unread=%d\n", c.ID, c.DisplayName, pinned, c.UnreadCount)
}

func printThread(v any) {
	r := v.(*rpc.ThreadResponse)
	fmt.Printf("%s (%s)\n\n", r.Conversation.DisplayName, r.Conversation.Category)
	for _, m := range r.Messages {
		printMessageLine(m)
	}
}

func printMessage(v any) {
	printMessageLine(v.(*rpc.SendMessageResponse).Message)
}

func printMessageLine(m *rpc.Message) {
	who := "them"
	if m.FromSelf {
		who = "me"
	}
	fmt.Printf("%4d  %8s  %-4s  %s\n", m.ID, m.Time, who, m.DisplayText)
}

func printStatus(v any) {
	r := v.(*rpc.StatusResponse)
	fmt.Printf("Session:       %s\n", r.Session)
	fmt.Printf("Status:        %s\n", r.Status)
	if r.Reason != "" {
		fmt.Printf("Reason:        %s\n", r.Reason)
	}
	fmt.Printf("Uptime:        %s\n", (time.Duration(r.UptimeMs) * time.Millisecond).Round(time.Second))
	fmt.Printf("Conversations: %d (%d unread)\n", r.ConversationCount, r.TotalUnread)
	fmt.Printf("Stored:        %d messages\n", r.StoredMessages)
	if r.OpenConversation != "" {
		fmt.Printf("Open:          %s\n", r.OpenConversation)
	}
	fmt.Printf("Outbox:        %d pending, %d dispatched, %d failed, %d dropped\n",
		r.Outbox.Pending, r.Outbox.Dispatched, r.Outbox.Failed, r.Outbox.Dropped)
}

func ago(ms int64) string {
	if ms == 0 {
		return ""
	}
	d := time.Since(time.UnixMilli(ms))
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
