package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/wanreader/internal/app"
	"github.com/five82/wanreader/internal/collect"
	"github.com/five82/wanreader/internal/prefs"
	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/task"
	"github.com/five82/wanreader/internal/ui"
	"github.com/five82/wanreader/internal/wan"
)

// withEnv opens the application environment for the duration of fn.
func withEnv(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, env *app.Env) error) (err error) {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	env, err := app.Open(opts.app())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()
	return fn(cmd.Context(), env)
}

// await runs call on the environment's executor and unwraps the outcome.
func await[T any](ctx context.Context, env *app.Env, call func(context.Context) result.Outcome[T]) (T, error) {
	outcome, ok := task.New(env.Exec, call).Await(ctx)
	if !ok {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, errors.New("operation cancelled")
	}
	value, _ := outcome.Value()
	return value, outcome.Err()
}

// readSecret prompts on stderr and reads one line from stdin.
func readSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// rememberUser stores the signed-in name so the next TUI start prefills it.
func rememberUser(env *app.Env, path, username string) {
	p, err := prefs.Load(path)
	if err != nil {
		env.Log.Warn().Err(err).Msg("load preferences")
	}
	p.Username = username
	if err := prefs.Save(path, p); err != nil {
		env.Log.Warn().Err(err).Msg("save preferences")
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article id %q", arg)
	}
	return id, nil
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and store the session cookie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				if password, err = readSecret(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: "); err != nil {
					return err
				}
			}
			if err := ui.ValidateLogin(username, password); err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				user, err := await(ctx, env, func(ctx context.Context) result.Outcome[wan.User] {
					resp, err := env.Client.Login(ctx, username, password)
					return result.FromEnvelope(resp, err)
				})
				if err != nil {
					return err
				}
				env.Log.Info().Str("username", username).Msg("signed in")
				rememberUser(env, opts.prefsPath, username)
				return printUser(cmd.OutOrStdout(), opts.format, "Signed in as", user)
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var password, confirm string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if password == "" {
				if password, err = readSecret(cmd, in, "Password: "); err != nil {
					return err
				}
			}
			if confirm == "" {
				if confirm, err = readSecret(cmd, in, "Repeat password: "); err != nil {
					return err
				}
			}
			if err := ui.ValidateRegister(username, password, confirm); err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				user, err := await(ctx, env, func(ctx context.Context) result.Outcome[wan.User] {
					resp, err := env.Client.Register(ctx, username, password, confirm)
					return result.FromEnvelope(resp, err)
				})
				if err != nil {
					return err
				}
				env.Log.Info().Str("username", username).Msg("registered")
				rememberUser(env, opts.prefsPath, username)
				return printUser(cmd.OutOrStdout(), opts.format, "Registered as", user)
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Repeated password (read from stdin when omitted)")
	return cmd
}

func newListCmd(opts *rootOptions, use, short string, favorites bool) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 0 {
				return fmt.Errorf("page must be non-negative, got %d", page)
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				list, err := await(ctx, env, func(ctx context.Context) result.Outcome[wan.ArticlePage] {
					if favorites {
						resp, err := env.Client.ListFavorites(ctx, page)
						return result.Then(result.FromEnvelope(resp, err), wan.ArticlePage.MarkCollected)
					}
					resp, err := env.Client.ListArticles(ctx, page)
					return result.FromEnvelope(resp, err)
				})
				if err != nil {
					return err
				}
				return printPage(cmd.OutOrStdout(), opts.format, page, list)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page to fetch, starting at 0")
	return cmd
}

func newCollectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "collect <id>",
		Short: "Add an article to your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				collected, err := await(ctx, env, func(ctx context.Context) result.Outcome[bool] {
					return collect.NewReconciler(env.Client).Toggle(ctx, id, id, false)
				})
				if err != nil {
					return err
				}
				return printToggle(cmd.OutOrStdout(), opts.format, id, collected)
			})
		},
	}
}

func newUncollectCmd(opts *rootOptions) *cobra.Command {
	var origin int

	cmd := &cobra.Command{
		Use:   "uncollect <id>",
		Short: "Remove an article from your favorites",
		Long:  "Remove an article from your favorites. Entries listed by the favorites command carry an origin id; pass it with --origin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if origin < 0 {
				return fmt.Errorf("invalid origin id %d", origin)
			}
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				collected, err := await(ctx, env, func(ctx context.Context) result.Outcome[bool] {
					return collect.NewReconciler(env.Client).Toggle(ctx, id, origin, true)
				})
				if err != nil {
					return err
				}
				return printToggle(cmd.OutOrStdout(), opts.format, id, collected)
			})
		},
	}

	cmd.Flags().IntVar(&origin, "origin", 0, "Origin article id (defaults to <id>)")
	return cmd
}

func newReadCmd(opts *rootOptions) *cobra.Command {
	var (
		save  bool
		title string
	)

	cmd := &cobra.Command{
		Use:   "read <link>",
		Short: "Fetch an article page and print its readable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := args[0]
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				page, err := await(ctx, env, func(ctx context.Context) result.Outcome[render.Page] {
					page, err := env.Reader.Fetch(ctx, link)
					if err != nil {
						return result.Failure[render.Page](err)
					}
					return result.Success(page)
				})
				if err != nil {
					return err
				}

				out := readOutput{Title: page.Title, Byline: page.Byline, URL: page.FinalURL, Markdown: page.Markdown}
				if save {
					article := wan.Article{Title: title, Link: link, Author: page.Byline}
					if article.Title == "" {
						article.Title = page.Title
					}
					path, err := env.Exporter.Write(article, &page)
					if err != nil {
						return err
					}
					env.Log.Info().Str("path", path).Msg("article saved")
					out.SavedTo = path
				}
				return printRead(cmd.OutOrStdout(), opts.format, out)
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Also save the article as markdown in the export directory")
	cmd.Flags().StringVar(&title, "title", "", "Title for the saved file (defaults to the page title)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, opts, func(ctx context.Context, env *app.Env) error {
				if _, err := await(ctx, env, func(ctx context.Context) result.Outcome[result.Unit] {
					resp, err := env.Client.Logout(ctx)
					return result.FromAck(resp, err)
				}); err != nil {
					return err
				}
				if err := env.Jar.Clear(); err != nil {
					return fmt.Errorf("forget session: %w", err)
				}
				env.Log.Info().Msg("signed out")
				return printMessage(cmd.OutOrStdout(), opts.format, "Signed out")
			})
		},
	}
}
