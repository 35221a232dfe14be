package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/matheus3301/convo/internal/rpc"
	"github.com/matheus3301/convo/internal/session"
	"golang.org/x/term"
)

type command struct {
	run   func(ctx context.Context, c *rpc.Client, args []string) (any, error)
	print func(v any)
}

// usages is separate from commands: the run funcs read it.
var usages = map[string]string{
	"list":    "list [-filter text] [-tag all|direct|group]",
	"unread":  "unread",
	"pin":     "pin <id>",
	"unpin":   "unpin <id>",
	"delete":  "delete <id>",
	"read":    "read <id>",
	"actions": "actions <id>",
	"tag":     "tag <all|direct|group>",
	"open":    "open [-newest] <id>",
	"close":   "close",
	"thread":  "thread [-newest] <id>",
	"send":    "send <id> <text...>",
	"rm":      "rm <id> <message-id>",
	"deliver": "deliver [-at RFC3339] <id> <text...>",
	"status":  "status",
	"watch":   "watch [prefix...]",
}

var commands = map[string]command{
	"list":    {cmdList, printList},
	"unread":  {cmdUnread, nil},
	"pin":     {cmdPin, printConversation},
	"unpin":   {cmdUnpin, nil},
	"delete":  {cmdDelete, nil},
	"read":    {cmdRead, printConversation},
	"actions": {cmdActions, nil},
	"tag":     {cmdTag, nil},
	"open":    {cmdOpen, printThread},
	"close":   {cmdClose, nil},
	"thread":  {cmdThread, printThread},
	"send":    {cmdSend, printMessage},
	"rm":      {cmdRemoveMessage, nil},
	"deliver": {cmdDeliver, nil},
	"status":  {cmdStatus, printStatus},
}

var order = []string{"list", "unread", "pin", "unpin", "delete", "read", "actions", "tag", "open", "close", "thread", "send", "rm", "deliver", "status", "watch"}

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	jsonFlag := flag.Bool("json", !term.IsTerminal(int(os.Stdout.Fd())), "output in JSON format (default when stdout is not a terminal)")
	timeout := flag.Duration("timeout", 10*time.Second, "per-command timeout")
	flag.Usage = printUsage
	flag.Parse()

	sessionName := session.Resolve(*sessionFlag)
	if err := session.ValidateName(sessionName); err != nil {
		fatalf("%v", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	if _, ok := usages[args[0]]; !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	c, err := rpc.Dial(session.SocketPath(sessionName))
	if err != nil {
		fatalf("cannot connect to daemon for session %q: %v", sessionName, err)
	}
	defer func() { _ = c.Close() }()

	if args[0] == "watch" {
		if err := cmdWatch(context.Background(), c, args[1:], *jsonFlag); err != nil {
			fatalf("%v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cmd := commands[args[0]]
	resp, err := cmd.run(ctx, c, args[1:])
	if err != nil {
		fatalf("%v", err)
	}
	switch {
	case *jsonFlag:
		outputJSON(resp)
	case cmd.print != nil:
		cmd.print(resp)
	default:
		printDefault(resp)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: convoctl [--session <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	for _, name := range order {
		fmt.Fprintf(os.Stderr, "  %s\n", usages[name])
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: convoctl %s", usage)
	}
	return nil
}

func cmdList(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	filter := fs.String("filter", "", "case-insensitive name filter")
	tag := fs.String("tag", "", "all, direct or group (default: the selected tag)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c.Conversation.ListConversations(ctx, &rpc.ListConversationsRequest{Filter: *filter, Tag: *tag})
}

func cmdUnread(ctx context.Context, c *rpc.Client, _ []string) (any, error) {
	return c.Conversation.TotalUnread(ctx, &rpc.Empty{})
}

func cmdPin(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 1, usages["pin"]); err != nil {
		return nil, err
	}
	return c.Conversation.TogglePin(ctx, &rpc.ConversationRequest{ID: args[0]})
}

func cmdUnpin(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 1, usages["unpin"]); err != nil {
		return nil, err
	}
	return c.Conversation.Dispatch(ctx, &rpc.DispatchRequest{Intent: rpc.IntentUnpin, ID: args[0]})
}

func cmdDelete(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 1, usages["delete"]); err != nil {
		return nil, err
	}
	return c.Conversation.DeleteConversation(ctx, &rpc.ConversationRequest{ID: args[0]})
}

func cmdRead(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 1, usages["read"]); err != nil {
		return nil, err
	}
	return c.Conversation.MarkRead(ctx, &rpc.ConversationRequest{ID: args[0]})
}

func cmdActions(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 1, usages["actions"]); err != nil {
		return nil, err
	}
	return c.Conversation.Actions(ctx, &rpc.ConversationRequest{ID: args[0]})
}

func cmdTag(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 1, usages["tag"]); err != nil {
		return nil, err
	}
	return c.Conversation.Dispatch(ctx, &rpc.DispatchRequest{Intent: rpc.IntentSelectTag, Tag: args[0]})
}

func threadFlags(name string, args []string) (newest bool, rest []string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	n := fs.Bool("newest", false, "newest message first")
	if err := fs.Parse(args); err != nil {
		return false, nil, err
	}
	if fs.NArg() < 1 {
		return false, nil, fmt.Errorf("usage: convoctl %s", usages[name])
	}
	return *n, fs.Args(), nil
}

func cmdOpen(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	newest, rest, err := threadFlags("open", args)
	if err != nil {
		return nil, err
	}
	return c.Thread.OpenThread(ctx, &rpc.OpenThreadRequest{ID: rest[0], NewestFirst: newest})
}

func cmdClose(ctx context.Context, c *rpc.Client, _ []string) (any, error) {
	return c.Thread.CloseThread(ctx, &rpc.Empty{})
}

func cmdThread(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	newest, rest, err := threadFlags("thread", args)
	if err != nil {
		return nil, err
	}
	return c.Thread.ListMessages(ctx, &rpc.ListMessagesRequest{ID: rest[0], NewestFirst: newest})
}

func cmdSend(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 2, usages["send"]); err != nil {
		return nil, err
	}
	return c.Thread.SendMessage(ctx, &rpc.SendMessageRequest{ID: args[0], Text: strings.Join(args[1:], " ")})
}

func cmdRemoveMessage(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	if err := requireArgs(args, 2, usages["rm"]); err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("message id %q: %w", args[1], err)
	}
	return c.Thread.DeleteMessage(ctx, &rpc.DeleteMessageRequest{ID: args[0], MessageID: id})
}

func cmdDeliver(ctx context.Context, c *rpc.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("deliver", flag.ContinueOnError)
	at := fs.String("at", "", "when the peer sent it (RFC3339, default now)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireArgs(fs.Args(), 2, usages["deliver"]); err != nil {
		return nil, err
	}
	req := &rpc.DeliverRequest{ID: fs.Arg(0), Text: strings.Join(fs.Args()[1:], " ")}
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return nil, fmt.Errorf("-at: %w", err)
		}
		req.OccurredAtUnixMs = t.UnixMilli()
	}
	resp, err := c.Conversation.Deliver(ctx, req)
	if err == nil && resp.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", resp.Warning)
	}
	return resp, err
}

func cmdStatus(ctx context.Context, c *rpc.Client, _ []string) (any, error) {
	return c.Session.GetStatus(ctx, &rpc.Empty{})
}

func cmdWatch(ctx context.Context, c *rpc.Client, prefixes []string, jsonOut bool) error {
	stream, err := c.Conversation.Watch(ctx, &rpc.WatchRequest{Prefixes: prefixes})
	if err != nil {
		return err
	}
	for {
		evt, err := stream.Recv()
		if err != nil {
			return err
		}
		if jsonOut {
			outputJSON(evt)
			continue
		}
		ts := time.UnixMilli(evt.OccurredAtUnixMs).Format(time.TimeOnly)
		fmt.Printf("%s  %-28s %s\n", ts, evt.Kind, evt.ConversationID)
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
