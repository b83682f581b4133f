package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/config"
	"github.com/tgienger/studyhub/internal/models"
)

// NewUserCommand creates the user command group.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage identities",
	}
	cmd.AddCommand(newUserAddCommand(opts))
	cmd.AddCommand(newUserListCommand(opts))
	cmd.AddCommand(newUserUseCommand(opts))
	return cmd
}

func newUserAddCommand(opts *RootOptions) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a student or teacher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			u, err := s.svc.CreateUser(args[0], models.Role(role))
			if err != nil {
				return err
			}
			return s.out.Success(userView{ID: u.ID, Name: u.Name, Role: string(u.Role)})
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", string(models.RoleStudent), "student or teacher")
	return cmd
}

func newUserListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List identities",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			users, err := s.svc.Users()
			if err != nil {
				return err
			}
			l := userList{Users: make([]userView, 0, len(users))}
			for _, u := range users {
				l.Users = append(l.Users, userView{ID: u.ID, Name: u.Name, Role: string(u.Role)})
			}
			return s.out.Success(l)
		},
	}
}

func newUserUseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Act as this user from now on",
		Long:  "Saves the user in the config file so later commands do not need --as.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			u, err := s.svc.UserByName(args[0])
			if err != nil {
				return err
			}

			// Only persist what the file already held, not env overrides.
			file, err := config.ReadFile(s.cfgPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			file.User = u.Name
			if err := file.Save(s.cfgPath); err != nil {
				return WrapExitError(ExitCommandError, "failed to save config", err)
			}
			return s.out.Success(result{Message: fmt.Sprintf("Now acting as %s (%s).", u.Name, u.Role), ID: u.ID})
		},
	}
}
