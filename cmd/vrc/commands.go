package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birbparty/vrcsdk/objects"
	"github.com/birbparty/vrcsdk/types"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "vrc",
		Short:         "Command line client for the VRChat API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "output format: json|yaml (env VRC_OUTPUT)")

	root.AddCommand(
		newMeCmd(a),
		newUserCmd(a),
		newFriendsCmd(a),
		newWorldCmd(a),
		newInstanceCmd(a),
		newAvatarCmd(a),
		newAvatarsCmd(a),
		newFavoritesCmd(a),
		newNotificationsCmd(a),
		newModerationsCmd(a),
	)
	return root
}

func newMeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user with avatar, friends and home world",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.vrc.FetchMe(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(newMeView(u))
		},
	}

	var (
		email, status, statusDescription, bio string
		bioLinks                              []string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields; unset flags keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.me(cmd.Context())
			if err != nil {
				return err
			}

			var p objects.UpdateInfoParams
			flags := cmd.Flags()
			if flags.Changed("email") {
				p.Email = &email
			}
			if flags.Changed("status") {
				p.Status = &status
			}
			if flags.Changed("status-description") {
				p.StatusDescription = &statusDescription
			}
			if flags.Changed("bio") {
				p.Bio = &bio
			}
			if flags.Changed("bio-link") {
				p.BioLinks = bioLinks
			}

			updated, err := me.UpdateInfo(cmd.Context(), p)
			if err != nil {
				return err
			}
			return a.print(newMeView(updated))
		},
	}
	update.Flags().StringVar(&email, "email", "", "account email")
	update.Flags().StringVar(&status, "status", "", "active, join me, ask me, busy or offline")
	update.Flags().StringVar(&statusDescription, "status-description", "", "status text, up to 32 characters")
	update.Flags().StringVar(&bio, "bio", "", "profile bio, up to 512 characters")
	update.Flags().StringArrayVar(&bioLinks, "bio-link", nil, "profile link; repeat for up to 3")

	cmd.AddCommand(update)
	return cmd
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.vrc.FetchUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(u)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "avatars <id>",
			Short: "List a user's public avatars",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.vrc.FetchUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				avatars, err := u.PublicAvatars(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(avatars)
			},
		},
		&cobra.Command{
			Use:   "friend <id>",
			Short: "Send a friend request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.vrc.FetchUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				n, err := objects.SendFriendRequest(cmd.Context(), u)
				if err != nil {
					return err
				}
				return a.print(n)
			},
		},
		&cobra.Command{
			Use:   "unfriend <id>",
			Short: "Remove a friend",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := a.vrc.FetchUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := objects.RemoveFriend(cmd.Context(), u); err != nil {
					return err
				}
				return a.print(map[string]string{"unfriended": u.ID})
			},
		},
	)
	return cmd
}

func newFriendsCmd(a *app) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "List online friends, or offline ones with --offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			friends, err := a.vrc.FetchFriends(cmd.Context(), offline)
			if err != nil {
				return err
			}
			return a.print(friends)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "list offline friends")
	return cmd
}

func newWorldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "world <id>",
		Short: "Show a world and its running instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.vrc.FetchWorld(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(newWorldView(w))
		},
	}
}

func newInstanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "instance <world-id> <instance-id>",
		Short: "Show one instance of a world",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := a.vrc.FetchInstance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(inst)
		},
	}
}

func newAvatarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <id>",
		Short: "Show an avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			av, err := a.vrc.FetchAvatar(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(av)
		},
	}
}

func newAvatarsCmd(a *app) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "avatars",
		Short: "List avatars authored by the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.me(cmd.Context())
			if err != nil {
				return err
			}
			avatars, err := me.Avatars(cmd.Context(), types.ReleaseStatus(status))
			if err != nil {
				return err
			}
			return a.print(avatars)
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "release status: public, private, hidden or all")
	return cmd
}

func newFavoritesCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorites, optionally of one type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.me(cmd.Context())
			if err != nil {
				return err
			}
			kinds := []types.FavoriteType{types.FavoriteTypeWorld, types.FavoriteTypeFriend, types.FavoriteTypeAvatar}
			if kind != "" {
				kinds = []types.FavoriteType{types.FavoriteType(kind)}
			}

			var favs []*objects.Favorite
			for _, t := range kinds {
				page, err := me.FetchFavorites(cmd.Context(), t)
				if err != nil {
					return err
				}
				favs = append(favs, page...)
			}
			return a.print(newFavoriteViews(favs))
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "world, friend or avatar; empty lists all three")

	add := &cobra.Command{
		Use:   "add <world|friend|avatar> <id>",
		Short: "Favorite a world, friend or avatar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := types.ParseFavoriteType(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var target any
			switch t {
			case types.FavoriteTypeWorld:
				target, err = a.vrc.FetchWorld(ctx, args[1])
			case types.FavoriteTypeAvatar:
				target, err = a.vrc.FetchAvatar(ctx, args[1])
			case types.FavoriteTypeFriend:
				target, err = a.vrc.FetchUser(ctx, args[1])
			}
			if err != nil {
				return err
			}

			fav, err := objects.AddFavorite(ctx, target)
			if err != nil {
				return err
			}
			return a.print(fav)
		},
	}

	remove := &cobra.Command{
		Use:   "remove <favorite-id>",
		Short: "Remove a favorite by its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.me(cmd.Context())
			if err != nil {
				return err
			}
			if err := me.RemoveFavorite(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.print(map[string]string{"removed": args[0]})
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, optionally of one type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := a.vrc.FetchNotifications(cmd.Context(), types.NotificationType(kind))
			if err != nil {
				return err
			}
			return a.print(ns)
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "notification type, e.g. friendRequest")

	act := func(use, short string, fn func(*cobra.Command, *objects.Notification) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <notification-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ns, err := a.vrc.FetchNotifications(cmd.Context(), "")
				if err != nil {
					return err
				}
				for _, n := range ns {
					if n.ID == args[0] {
						if err := fn(cmd, n); err != nil {
							return err
						}
						return a.print(n)
					}
				}
				return fmt.Errorf("notification %s not found", args[0])
			},
		}
	}

	cmd.AddCommand(
		act("accept", "Accept a friend request", func(cmd *cobra.Command, n *objects.Notification) error {
			return n.Accept(cmd.Context())
		}),
		act("seen", "Mark a notification as seen", func(cmd *cobra.Command, n *objects.Notification) error {
			return n.MarkSeen(cmd.Context())
		}),
		act("hide", "Hide a notification", func(cmd *cobra.Command, n *objects.Notification) error {
			return n.Hide(cmd.Context())
		}),
	)
	return cmd
}

func newModerationsCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "moderations",
		Short: "List player moderations you have applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := a.vrc.FetchPlayerModerations(cmd.Context(), types.PlayerModerationType(kind))
			if err != nil {
				return err
			}
			return a.print(mods)
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "block, mute, unmute, hideAvatar or showAvatar")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <user-id> <type>",
			Short: "Moderate a user",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := types.ParsePlayerModerationType(args[1])
				if err != nil {
					return err
				}
				m, err := a.vrc.Moderate(cmd.Context(), args[0], t)
				if err != nil {
					return err
				}
				return a.print(m)
			},
		},
		&cobra.Command{
			Use:   "remove <user-id> <type>",
			Short: "Lift a moderation",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := types.ParsePlayerModerationType(args[1])
				if err != nil {
					return err
				}
				if err := a.vrc.Unmoderate(cmd.Context(), args[0], t); err != nil {
					return err
				}
				return a.print(map[string]string{"removed": string(t), "user": args[0]})
			},
		},
	)
	return cmd
}
