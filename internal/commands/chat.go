package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/whatsboard/internal/ai"
	"github.com/nhle/whatsboard/internal/ui/markdown"
)

func addChat(topLevel *cobra.Command, o *RootOptions) {
	cmd := &cobra.Command{
		Use:   "chat <task-id> <question>",
		Short: "Ask the assistant one question about a task.",
		Example: `
whatsboard chat 3f6c1d2e "what should I do first?"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd.Context())
			rt, done, err := o.openRuntime(ctx)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			if err := refresh(ctx, rt, out); err != nil {
				return err
			}
			t, err := taskByID(rt.Store.Tasks(), args[0])
			if err != nil {
				return err
			}

			question := strings.Join(args[1:], " ")
			session := rt.NewSession(t)
			if !session.Send(ctx, question) {
				return fmt.Errorf("empty question")
			}

			msgs := session.Messages()
			reply := msgs[len(msgs)-1]
			if reply.Role != ai.RoleAssistant {
				return fmt.Errorf("no reply")
			}
			md := markdown.New(rt.Config.Display.Theme)
			_, _ = fmt.Fprintln(out, strings.TrimRight(md.Render(reply.Content, 80), "\n"))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
