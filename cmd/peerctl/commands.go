package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"peer-match/internal/client"
	"peer-match/internal/client/api"
	"peer-match/internal/pkg/jwt"
	"peer-match/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// configFromContext loads the layered config and applies the global flags
// on top of it.
func configFromContext(c *cli.Context) (cliConfig, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cliConfig{}, err
	}
	if c.IsSet("user") {
		cfg.User.ID = c.String("user")
	}
	if c.IsSet("server") {
		cfg.Server.BaseURL = c.String("server")
	}
	return cfg, nil
}

func openSession(c *cli.Context) (*client.Session, error) {
	cfg, err := configFromContext(c)
	if err != nil {
		return nil, err
	}
	userID, err := cfg.userID()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.timeout()
	if err != nil {
		return nil, err
	}
	lg, err := logger.New("development", cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	return client.Open(c.Context, client.Config{
		BaseURL:        cfg.Server.BaseURL,
		Token:          cfg.Server.Token,
		Timeout:        timeout,
		UserID:         userID,
		ReplicaPath:    cfg.Replica.Path,
		ReplicaSession: cfg.Replica.Session,
	}, lg)
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "List ranked candidates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Match name, email or skill"},
			&cli.StringFlag{Name: "skill", Aliases: []string{"s"}, Usage: "Only candidates sharing `SKILL`"},
		},
		Action: runBrowse,
	}
}

func runBrowse(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Browse.Mount(c.Context); err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	s.Browse.SetQuery(c.String("query"))
	s.Browse.SetSkillFilter(c.String("skill"))

	st := s.Browse.State()
	if len(st.Items) == 0 {
		fmt.Fprintln(c.App.Writer, "No candidates")
		if opts := s.Browse.SkillOptions(); len(opts) > 0 {
			fmt.Fprintf(c.App.Writer, "Skills: %s\n", strings.Join(opts, ", "))
		}
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSHARED\tSKILLS\tCONNECTED")
	for _, it := range st.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			it.CandidateID, it.CandidateName, it.CandidateEmail,
			it.SharedSkillCount, strings.Join(it.SharedSkillNames, ", "), yesNo(it.Connected))
	}
	return w.Flush()
}

func connectCommand() *cli.Command {
	return &cli.Command{
		Name:      "connect",
		Usage:     "Connect to a candidate from the browse list",
		ArgsUsage: "TARGET_ID",
		Action:    runConnect,
	}
}

func runConnect(c *cli.Context) error {
	targetID, err := targetArg(c)
	if err != nil {
		return err
	}

	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Browse.Mount(c.Context); err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	outcome, err := s.Browse.Connect(c.Context, targetID)
	if err != nil {
		if api.IsTransient(err) {
			return fmt.Errorf("server unreachable, try again: %w", err)
		}
		return err
	}

	switch outcome {
	case api.AlreadyExists:
		fmt.Fprintf(c.App.Writer, "Already connected to %s\n", targetID)
	default:
		fmt.Fprintf(c.App.Writer, "Connected to %s\n", targetID)
	}
	return nil
}

func connectionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "connections",
		Usage:  "List your connections, including unconfirmed ones",
		Action: runConnections,
	}
}

func runConnections(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Connections.Mount(c.Context); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Warning: showing cached connections: %v\n", err)
	}

	st := s.Connections.State()
	if len(st.Items) == 0 {
		fmt.Fprintln(c.App.Writer, "No connections")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSKILLS\tCONFIRMED")
	for _, e := range st.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.TargetID, e.DisplayName, e.Email, strings.Join(e.SharedSkillNames, ", "), yesNo(e.Confirmed))
	}
	return w.Flush()
}

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "List conversation threads, optionally opening one",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "with", Aliases: []string{"w"}, Usage: "Open the thread with connection `ID`"},
		},
		Action: runChat,
	}
}

func runChat(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if raw := strings.TrimSpace(c.String("with")); raw != "" {
		targetID, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --with id %q: %w", raw, err)
		}
		if err := s.Connections.Mount(c.Context); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Warning: showing cached connections: %v\n", err)
		}
		if err := s.Connections.Message(targetID); err != nil {
			return fmt.Errorf("%s: %w", targetID, err)
		}
		s.Connections.Unmount()
	}

	if err := s.Conversation.Mount(c.Context); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Warning: threads built from cached connections: %v\n", err)
	}

	st := s.Conversation.State()
	if st.Active != nil {
		s.Conversation.Select(st.Active.ID)
		st = s.Conversation.State()
	}
	if len(st.Threads) == 0 {
		fmt.Fprintln(c.App.Writer, "No conversations")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tTHREAD\tWITH\tUNREAD")
	for _, th := range st.Threads {
		marker := ""
		if st.Active != nil && st.Active.ID == th.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", marker, th.ID, th.DisplayName, th.Unread)
	}
	return w.Flush()
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:   "token",
		Usage:  "Mint a development access token for the configured user",
		Action: runToken,
	}
}

func runToken(c *cli.Context) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	userID, err := cfg.userID()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return fmt.Errorf("jwt secret is required (%sJWT_SECRET)", envPrefix)
	}
	ttl, err := cfg.tokenTTL()
	if err != nil {
		return err
	}

	tok, err := jwt.NewHMACService(cfg.JWT.Secret, ttl).GenerateAccessToken(userID, cfg.User.Email)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}
	fmt.Fprintln(c.App.Writer, tok)
	return nil
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a sample configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "peerctl.toml",
					},
				},
				Action: func(c *cli.Context) error {
					out := c.String("output")
					if err := initConfig(out); err != nil {
						return fmt.Errorf("failed to initialize config: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "Created configuration file at %s\n", out)
					return nil
				},
			},
		},
	}
}

func targetArg(c *cli.Context) (uuid.UUID, error) {
	if c.NArg() != 1 {
		return uuid.Nil, fmt.Errorf("expected exactly one TARGET_ID")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid target id %q: %w", c.Args().First(), err)
	}
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
