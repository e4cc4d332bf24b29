/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/orien/rebake/internal/aws"
	"github.com/orien/rebake/internal/config"
	"github.com/orien/rebake/internal/naming"
)

// Tags applied to every image rebake creates
const (
	TagGroup          = "rebake:group"
	TagSourceInstance = "rebake:source-instance"
	TagRunID          = "rebake:run-id"
)

func (r *run) selectStep() step[Arguments, Selected] {
	return step[Arguments, Selected]{
		name:  StepSelectInstance,
		phase: PhasePrepare,
		title: "selecting instance for update",
		run:   r.selectInstance,
		detail: func(s Selected) string {
			return fmt.Sprintf("selected instance [%s]", s.Instance.ID)
		},
	}
}

func (r *run) selectInstance(ctx context.Context, args Arguments) (Selected, error) {
	callCtx, cancel := r.lookup(ctx)
	defer cancel()

	group, err := r.asg.DescribeGroup(callCtx, args.GroupName)
	if err != nil {
		if errors.Is(err, aws.ErrGroupNotFound) {
			return Selected{}, fmt.Errorf("%w: %s", ErrGroupNotFound, args.GroupName)
		}
		return Selected{}, err
	}

	member, err := SelectInstance(group)
	if err != nil {
		return Selected{}, err
	}

	if group.LaunchTemplate == nil || group.LaunchTemplate.ID == "" {
		return Selected{}, fmt.Errorf("%w: %s", ErrNoLaunchTemplate, args.GroupName)
	}

	instance, err := r.ec2.DescribeInstance(callCtx, member.InstanceID)
	if err != nil {
		return Selected{}, fmt.Errorf("%w: %w", ErrInstanceLookupFailed, err)
	}

	r.result.InstanceID = instance.ID
	r.result.PublicAddress = instance.PublicAddress
	r.result.PrivateAddress = instance.PrivateAddress
	r.result.LaunchTemplateID = group.LaunchTemplate.ID

	return Selected{
		Arguments:      args,
		LaunchTemplate: *group.LaunchTemplate,
		Instance:       *instance,
	}, nil
}

func (r *run) detachStep() step[Selected, Detached] {
	return step[Selected, Detached]{
		name:  StepDetachInstance,
		phase: PhasePrepare,
		title: "detaching selected instance",
		run:   r.detachInstance,
		detail: func(d Detached) string {
			return fmt.Sprintf("detached instance [%s]", d.Instance.ID)
		},
	}
}

func (r *run) detachInstance(ctx context.Context, in Selected) (Detached, error) {
	callCtx, cancel := r.mutate(ctx)
	defer cancel()

	// Desired capacity is kept so the group launches a replacement straight away
	if err := r.asg.DetachInstance(callCtx, in.Arguments.GroupName, in.Instance.ID, false); err != nil {
		return Detached{}, fmt.Errorf("%w: %w", ErrDetachFailed, err)
	}
	r.leave(ResourceInstance, in.Instance.ID)

	return Detached{Selected: in}, nil
}

func (r *run) updateStep() step[Detached, Updated] {
	return step[Detached, Updated]{
		name:  StepUpdateInstance,
		phase: PhaseUpdate,
		title: "updating detached instance",
		run:   r.updateInstance,
		detail: func(u Updated) string {
			return fmt.Sprintf("updated instance [%s]", u.Instance.ID)
		},
	}
}

func (r *run) updateInstance(ctx context.Context, in Detached) (Updated, error) {
	address := in.Instance.PublicAddress
	if r.opts.Address == config.AddressPrivate {
		address = in.Instance.PrivateAddress
	}
	if address == "" {
		return Updated{}, fmt.Errorf("%w: instance %s has no %s address", ErrUpdateFailed, in.Instance.ID, r.opts.Address)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.UpdateTimeout)
	defer cancel()

	clog.FromContext(ctx).Debug("applying update", "instance", in.Instance.ID, "address", address)

	if err := r.opts.Updater.Apply(ctx, address); err != nil {
		return Updated{}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	return Updated{Detached: in}, nil
}

func (r *run) imageStep() step[Updated, Imaged] {
	return step[Updated, Imaged]{
		name:  StepCreateImage,
		phase: PhaseBake,
		title: "creating image based on modified instance",
		run:   r.createImage,
		detail: func(i Imaged) string {
			return fmt.Sprintf("image [%s] %s is available", i.ImageID, i.ImageName)
		},
	}
}

func (r *run) createImage(ctx context.Context, in Updated) (Imaged, error) {
	log := clog.FromContext(ctx)

	name, err := naming.ImageName(r.opts.ImageName, naming.Vars{
		Group:    in.Arguments.GroupName,
		Account:  in.Arguments.AccountID,
		Instance: in.Instance.ID,
		Time:     r.now(),
	})
	if err != nil {
		return Imaged{}, fmt.Errorf("%w: %w", ErrImageCreationFailed, err)
	}

	callCtx, cancel := r.mutate(ctx)
	imageID, err := r.ec2.CreateImage(callCtx, aws.CreateImageInput{
		InstanceID:  in.Instance.ID,
		Name:        name,
		Description: fmt.Sprintf("Re-imaged from %s of %s by rebake", in.Instance.ID, in.Arguments.GroupName),
		Tags: map[string]string{
			TagGroup:          in.Arguments.GroupName,
			TagSourceInstance: in.Instance.ID,
			TagRunID:          r.id,
		},
	})
	cancel()
	if err != nil {
		return Imaged{}, fmt.Errorf("%w: %w", ErrImageCreationFailed, err)
	}

	r.leave(ResourceImage, imageID)
	r.result.ImageID = imageID
	r.result.ImageName = name
	log.Info("waiting for image", "image", imageID, "timeout", r.opts.ImageTimeout)

	if err := r.ec2.WaitForImage(ctx, imageID, r.opts.ImageTimeout); err != nil {
		if errors.Is(err, aws.ErrWaitTimeout) {
			return Imaged{}, fmt.Errorf("%w: %w", ErrImageTimeout, err)
		}
		return Imaged{}, fmt.Errorf("%w: %w", ErrImageCreationFailed, err)
	}

	return Imaged{Updated: in, ImageID: imageID, ImageName: name}, nil
}

func (r *run) publishStep() step[Imaged, Published] {
	return step[Imaged, Published]{
		name:  StepPublishTemplate,
		phase: PhaseBake,
		title: "creating new launch template version",
		run:   r.publishTemplate,
		detail: func(p Published) string {
			return fmt.Sprintf("launch template [%s] version %d", p.LaunchTemplate.ID, p.TemplateVersion)
		},
	}
}

func (r *run) publishTemplate(ctx context.Context, in Imaged) (Published, error) {
	callCtx, cancel := r.mutate(ctx)
	defer cancel()

	// Sourcing from the group's version carries over every other launch parameter
	version, err := r.ec2.CreateLaunchTemplateVersion(callCtx, aws.TemplateVersionInput{
		LaunchTemplateID: in.LaunchTemplate.ID,
		SourceVersion:    in.LaunchTemplate.Version,
		ImageID:          in.ImageID,
		Description:      fmt.Sprintf("rebake %s: image %s", r.id, in.ImageID),
	})
	if err != nil {
		return Published{}, fmt.Errorf("%w: %w", ErrTemplateVersionFailed, err)
	}

	// The image is in use now; it is no longer an orphan
	r.release(ResourceImage, in.ImageID)
	r.leave(ResourceTemplateVersion, fmt.Sprintf("%s:%d", in.LaunchTemplate.ID, version))
	r.result.TemplateVersion = version

	return Published{Imaged: in, TemplateVersion: version}, nil
}

func (r *run) terminateStep() step[Published, Terminated] {
	return step[Published, Terminated]{
		name:  StepTerminateInstance,
		phase: PhaseBake,
		title: "terminating detached instance",
		run:   r.terminateInstance,
		detail: func(t Terminated) string {
			return fmt.Sprintf("terminated instance [%s]", t.Instance.ID)
		},
	}
}

func (r *run) terminateInstance(ctx context.Context, in Published) (Terminated, error) {
	callCtx, cancel := r.mutate(ctx)
	defer cancel()

	if err := r.ec2.TerminateInstance(callCtx, in.Instance.ID); err != nil {
		return Terminated{}, fmt.Errorf("%w: %w", ErrTerminationFailed, err)
	}
	r.release(ResourceInstance, in.Instance.ID)

	return Terminated{Published: in}, nil
}

func (r *run) refreshStep() step[Terminated, Refreshed] {
	return step[Terminated, Refreshed]{
		name:  StepStartRefresh,
		phase: PhaseBake,
		title: "starting auto scaling instance refresh",
		run:   r.startRefresh,
		detail: func(rf Refreshed) string {
			return fmt.Sprintf("instance refresh [%s] started", rf.RefreshID)
		},
	}
}
