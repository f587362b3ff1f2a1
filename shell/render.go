package shell

import (
	"fmt"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/adrian-25/talk-glide/search"
)

// RenderList prints the conversation list pane as a table, most recent first.
func RenderList(w io.Writer, view View) {
	if len(view.Summaries) == 0 {
		fmt.Fprintln(w, "No conversations yet. Start one with /chat <username>.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Conversation", "Kind", "Members", "Last activity"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, summary := range view.Summaries {
		kind := "direct"
		if summary.IsGroup {
			kind = "group"
		}
		marker := fmt.Sprintf("%d", i+1)
		if summary.ID == view.Selected {
			marker = "> " + marker
		}
		table.Append([]string{
			marker,
			summary.DisplayName(),
			kind,
			fmt.Sprintf("%d", summary.MemberCount),
			summary.UpdatedAt.Local().Format("Jan 02 15:04"),
		})
	}
	table.Render()
}

// RenderConversation prints the active pane: header plus messages in the
// backend's creation-time order.
func RenderConversation(w io.Writer, view View, selfUsername string) {
	switch view.State {
	case Unselected:
		fmt.Fprintln(w, "No conversation selected.")
		return
	case Loading:
		fmt.Fprintln(w, "Loading...")
		return
	}

	color.Fprintf(w, "<bold>== %s ==</>\n", view.Header.Title())
	if len(view.Messages) == 0 {
		fmt.Fprintln(w, "(no messages)")
		return
	}

	for _, msg := range view.Messages {
		stamp := msg.CreatedAt.Local().Format(time.Kitchen)
		sender := msg.SenderLabel()
		if msg.SenderUsername == selfUsername {
			color.Fprintf(w, "<cyan>[%s] %s:</> %s\n", stamp, sender, msg.Content)
		} else {
			color.Fprintf(w, "<green>[%s] %s:</> %s\n", stamp, sender, msg.Content)
		}
	}
}

// RenderHits prints local search results.
func RenderHits(w io.Writer, hits []search.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"When", "Sender", "Message"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, hit := range hits {
		table.Append([]string{
			hit.At.Local().Format("Jan 02 15:04"),
			hit.Sender,
			hit.Content,
		})
	}
	table.Render()
}
